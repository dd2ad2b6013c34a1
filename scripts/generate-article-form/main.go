package main

import (
	"context"
	"fmt"
	"os"

	formstate "github.com/goliatone/go-formstate"
	"github.com/goliatone/go-formstate/pkg/definition"
	pkgopenapi "github.com/goliatone/go-formstate/pkg/openapi"
)

// Regenerates the article fixtures from the OpenAPI example document. Run
// from the repository root.
func main() {
	ctx := context.Background()

	const (
		schemaPath     = "examples/fixtures/articles.json"
		operationID    = "createArticle"
		rendererName   = "vanilla"
		definitionPath = "examples/fixtures/article.yaml"
		outputPath     = "examples/fixtures/article-form.html"
	)

	source := pkgopenapi.SourceFromFile(schemaPath)

	doc, err := pkgopenapi.NewLoader().LoadSource(ctx, source, operationID)
	if err != nil {
		fail("Failed to derive definition", err)
	}
	encoded, err := definition.Encode(doc, definition.FormatYAML)
	if err != nil {
		fail("Failed to encode definition", err)
	}
	if err := os.WriteFile(definitionPath, encoded, 0o644); err != nil {
		fail("Failed to write definition", err)
	}

	html, err := formstate.GenerateHTMLFromOpenAPI(ctx, source, operationID, rendererName, formstate.RenderOptions{Action: "/articles"})
	if err != nil {
		fail("Failed to generate form", err)
	}
	if err := os.WriteFile(outputPath, html, 0o644); err != nil {
		fail("Failed to write output", err)
	}

	fmt.Printf("Definition written to %s\n", definitionPath)
	fmt.Printf("Form written to %s\n", outputPath)
}

func fail(msg string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
	os.Exit(1)
}
