package ast

// ReturnPreference controls whether/what a mutation's RETURNING clause emits.
type ReturnPreference string

const (
	ReturnUnset          ReturnPreference = ""
	ReturnRepresentation ReturnPreference = "representation"
	ReturnMinimal        ReturnPreference = "minimal"
	ReturnHeadersOnly    ReturnPreference = "headers-only"
)

// ResolutionPreference maps to an ON CONFLICT action for inserts.
type ResolutionPreference string

const (
	ResolutionUnset             ResolutionPreference = ""
	ResolutionMergeDuplicates   ResolutionPreference = "merge-duplicates"
	ResolutionIgnoreDuplicates  ResolutionPreference = "ignore-duplicates"
)

// CountPreference is structural only: it never alters the generated SQL, it
// only tells an external collaborator how to report the affected row count.
type CountPreference string

const (
	CountUnset     CountPreference = ""
	CountExact     CountPreference = "exact"
	CountPlanned   CountPreference = "planned"
	CountEstimated CountPreference = "estimated"
)

// MissingPreference chooses NULL vs column DEFAULT for columns absent from
// some rows of a bulk insert.
type MissingPreference string

const (
	MissingUnset   MissingPreference = ""
	MissingDefault MissingPreference = "default"
	MissingNull    MissingPreference = "null"
)

// PluralityPreference is structural only, same caveat as [CountPreference].
type PluralityPreference string

const (
	PluralityUnset   PluralityPreference = ""
	PluralitySingular PluralityPreference = "singular"
	PluralityMultiple PluralityPreference = "multiple"
)

// PreferOptions is the parsed form of the `Prefer` request header. Unknown
// keys are dropped silently by the parser to allow forward compatibility.
type PreferOptions struct {
	Return     ReturnPreference
	Resolution ResolutionPreference
	Count      CountPreference
	Missing    MissingPreference
	Plurality  PluralityPreference
}
