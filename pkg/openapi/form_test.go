package openapi_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/definition"
	"github.com/goliatone/go-formstate/pkg/formstate"
	"github.com/goliatone/go-formstate/pkg/openapi"
)

func loadFixture(t *testing.T) []byte {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join("testdata", "articles.json"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	return raw
}

func TestOperations(t *testing.T) {
	ids, err := openapi.Operations(context.Background(), loadFixture(t))
	if err != nil {
		t.Fatalf("operations: %v", err)
	}
	if diff := cmp.Diff([]string{"createArticle", "listArticles"}, ids); diff != "" {
		t.Fatalf("operations mismatch (-want +got):\n%s", diff)
	}
}

func TestDocumentFromOperation(t *testing.T) {
	doc, err := openapi.DocumentFromOperation(context.Background(), loadFixture(t), "createArticle")
	if err != nil {
		t.Fatalf("document: %v", err)
	}

	wantOrder := []string{"body", "featured", "rating", "slug", "status", "title"}
	if diff := cmp.Diff(wantOrder, doc.Order); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}

	wantTitle := definition.FieldSpec{
		Default: "",
		Label:   "Title",
		Validators: []definition.Rule{
			{Kind: definition.RuleRequired},
			{Kind: definition.RuleMinLength, Value: int64(3)},
			{Kind: definition.RuleMaxLength, Value: int64(80)},
		},
	}
	if diff := cmp.Diff(wantTitle, doc.Fields["title"]); diff != "" {
		t.Fatalf("title spec mismatch (-want +got):\n%s", diff)
	}
	if got := doc.Fields["rating"].Default; got != int64(3) {
		t.Fatalf("expected integer default 3, got %#v", got)
	}
	if got := doc.Fields["featured"].Default; got != false {
		t.Fatalf("expected boolean zero default, got %#v", got)
	}
	if body := doc.Fields["body"]; body.Input != "textarea" || body.Help != "Markdown body" {
		t.Fatalf("unexpected body hints: %+v", body)
	}

	def, err := doc.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	form, err := formstate.New(def)
	if err != nil {
		t.Fatalf("new form: %v", err)
	}
	if form.State().Valid {
		t.Fatalf("expected required title/slug to invalidate the form")
	}

	_ = form.Change("title", "Hello world")
	_ = form.Change("slug", "hello-world")
	if !form.State().Valid {
		t.Fatalf("expected form to be valid, errors=%v fields=%v", form.Errors(), form.Data())
	}
	_ = form.Change("status", "archived")
	_ = form.Change("rating", 9)
	for _, name := range []string{"status", "rating"} {
		if fs, _ := form.Field(name); fs.Valid {
			t.Fatalf("expected %s to be invalid", name)
		}
	}
}

func TestDocumentFromOperation_Errors(t *testing.T) {
	raw := loadFixture(t)
	if _, err := openapi.DocumentFromOperation(context.Background(), raw, "missing"); !errors.Is(err, openapi.ErrOperationNotFound) {
		t.Fatalf("expected ErrOperationNotFound, got %v", err)
	}
	if _, err := openapi.DocumentFromOperation(context.Background(), raw, "listArticles"); !errors.Is(err, openapi.ErrNoRequestBody) {
		t.Fatalf("expected ErrNoRequestBody, got %v", err)
	}
	if _, err := openapi.DocumentFromOperation(context.Background(), nil, "createArticle"); err == nil {
		t.Fatalf("expected error for empty payload")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := openapi.DocumentFromOperation(ctx, raw, "createArticle"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation, got %v", err)
	}
}
