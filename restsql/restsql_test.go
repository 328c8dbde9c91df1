package restsql_test

import (
	"context"
	"errors"
	"testing"

	"github.com/relaysql/pgrestsql/parser"
	"github.com/relaysql/pgrestsql/qerrors"
	"github.com/relaysql/pgrestsql/restsql"
)

func TestParseSelect(t *testing.T) {
	t.Parallel()

	got, err := restsql.Parse(context.Background(), "users", "id=eq.1&select=id,name")
	if err != nil {
		t.Fatal(err)
	}
	want := `SELECT "id", "name" FROM "public"."users" WHERE "id" = $1`
	if got.Query != want {
		t.Errorf("got %q, want %q", got.Query, want)
	}
}

func TestParseRequestInsert(t *testing.T) {
	t.Parallel()

	req := restsql.Request{
		Method: "POST",
		Path:   "users",
		Body:   []byte(`{"name":"Alice","age":30}`),
	}
	got, err := restsql.ParseRequest(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	want := `INSERT INTO "public"."users" ("age", "name") VALUES ($1, $2)`
	if got.Query != want {
		t.Errorf("got %q, want %q", got.Query, want)
	}
}

func TestParseRequestPutSynthesizesOnConflict(t *testing.T) {
	t.Parallel()

	req := restsql.Request{
		Method:      "PUT",
		Path:        "users",
		QueryString: "email=eq.a@b.com",
		Body:        []byte(`{"email":"a@b.com","name":"A"}`),
	}
	got, err := restsql.ParseRequest(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	want := `INSERT INTO "public"."users" ("email", "name") VALUES ($1, $2) ON CONFLICT ("email") DO UPDATE SET "email"=EXCLUDED."email", "name"=EXCLUDED."name"`
	if got.Query != want {
		t.Errorf("got %q, want %q", got.Query, want)
	}
}

func TestParseRequestPutNoEqFiltersIsPlainInsert(t *testing.T) {
	t.Parallel()

	req := restsql.Request{
		Method: "PUT",
		Path:   "users",
		Body:   []byte(`{"name":"A"}`),
	}
	got, err := restsql.ParseRequest(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	want := `INSERT INTO "public"."users" ("name") VALUES ($1)`
	if got.Query != want {
		t.Errorf("got %q, want %q", got.Query, want)
	}
}

func TestParseRequestRpc(t *testing.T) {
	t.Parallel()

	req := restsql.Request{
		Method: "POST",
		Path:   "rpc/sum",
		Body:   []byte(`{"a":1,"b":2}`),
	}
	got, err := restsql.ParseRequest(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	want := `SELECT * FROM "public"."sum"("a" := $1, "b" := $2)`
	if got.Query != want {
		t.Errorf("got %q, want %q", got.Query, want)
	}
}

func TestSchemaResolutionDottedPrefixWins(t *testing.T) {
	t.Parallel()

	req := restsql.Request{
		Method:  "GET",
		Path:    "auth.users",
		Headers: parser.NewHeaders(map[string]string{"Accept-Profile": "tenant_a"}),
	}
	got, err := restsql.ParseRequest(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	want := `SELECT * FROM "auth"."users"`
	if got.Query != want {
		t.Errorf("got %q, want %q", got.Query, want)
	}
}

func TestSchemaResolutionProfileHeaderFallback(t *testing.T) {
	t.Parallel()

	req := restsql.Request{
		Method:  "GET",
		Path:    "users",
		Headers: parser.NewHeaders(map[string]string{"Accept-Profile": "tenant_a"}),
	}
	got, err := restsql.ParseRequest(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	want := `SELECT * FROM "tenant_a"."users"`
	if got.Query != want {
		t.Errorf("got %q, want %q", got.Query, want)
	}
}

func TestSchemaResolutionDefaultsToPublic(t *testing.T) {
	t.Parallel()

	got, err := restsql.ParseRequest(context.Background(), restsql.Request{Method: "GET", Path: "users"})
	if err != nil {
		t.Fatal(err)
	}
	if got.Query != `SELECT * FROM "public"."users"` {
		t.Errorf("got %q", got.Query)
	}
}

func TestUnsupportedMethodPropagates(t *testing.T) {
	t.Parallel()

	_, err := restsql.ParseRequest(context.Background(), restsql.Request{Method: "TRACE", Path: "users"})
	if !errors.Is(err, qerrors.ErrUnsupportedMethod) {
		t.Fatalf("got %v, want ErrUnsupportedMethod", err)
	}
}

func TestUnsafeDeletePropagates(t *testing.T) {
	t.Parallel()

	_, err := restsql.ParseRequest(context.Background(), restsql.Request{Method: "DELETE", Path: "users"})
	if !errors.Is(err, qerrors.ErrUnsafeDelete) {
		t.Fatalf("got %v, want ErrUnsafeDelete", err)
	}
}

// Not run in parallel: it mutates restsql's package-level default schema,
// which every other test in this file relies on defaulting to "public".
// Non-parallel (serial) tests finish before any t.Parallel() test in this
// package resumes, so the t.Cleanup restore below is safe.
func TestConfigureOverridesDefaultSchema(t *testing.T) {
	cfg, err := restsql.LoadConfig("PGRESTSQLTESTCFG")
	if err != nil {
		t.Fatal(err)
	}
	cfg.DefaultSchema = "tenant_b"

	t.Cleanup(func() {
		reset, err := restsql.LoadConfig("PGRESTSQLTESTCFG")
		if err != nil {
			t.Fatal(err)
		}
		if err := restsql.Configure(reset); err != nil {
			t.Fatal(err)
		}
	})

	if err := restsql.Configure(cfg); err != nil {
		t.Fatal(err)
	}

	got, err := restsql.ParseRequest(context.Background(), restsql.Request{Method: "GET", Path: "users"})
	if err != nil {
		t.Fatal(err)
	}
	want := `SELECT * FROM "tenant_b"."users"`
	if got.Query != want {
		t.Errorf("got %q, want %q", got.Query, want)
	}
}

func TestReturnRepresentationViaPreferHeader(t *testing.T) {
	t.Parallel()

	req := restsql.Request{
		Method:      "PATCH",
		Path:        "users",
		QueryString: "id=eq.1",
		Body:        []byte(`{"status":"active"}`),
		Headers:     parser.NewHeaders(map[string]string{"Prefer": "return=representation"}),
	}
	got, err := restsql.ParseRequest(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	want := `UPDATE "public"."users" SET "status" = $1 WHERE "id" = $2 RETURNING *`
	if got.Query != want {
		t.Errorf("got %q, want %q", got.Query, want)
	}
}
