package commands

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formstate/pkg/definition"
	"github.com/goliatone/go-formstate/pkg/openapi"
)

const articlesPath = "../../../pkg/openapi/testdata/articles.json"

func TestOpenAPI_List(t *testing.T) {
	out, err := execute(t, nil, "openapi", articlesPath, "--list")
	require.NoError(t, err)
	assert.Equal(t, "createArticle\nlistArticles\n", out)
}

func TestOpenAPI_Derive(t *testing.T) {
	for _, format := range []definition.Format{definition.FormatYAML, definition.FormatTOML, definition.FormatJSON} {
		t.Run(string(format), func(t *testing.T) {
			out, err := execute(t, nil, "openapi", articlesPath, "-O", "createArticle", "--format", string(format))
			require.NoError(t, err)

			doc, err := definition.Parse([]byte(out), format)
			require.NoError(t, err)
			assert.ElementsMatch(t, []string{"body", "featured", "rating", "slug", "status", "title"}, doc.Names())

			def, err := doc.Build()
			require.NoError(t, err)
			assert.True(t, def.Has("title"))
		})
	}
}

func TestOpenAPI_URLSource(t *testing.T) {
	raw, err := os.ReadFile(articlesPath)
	require.NoError(t, err)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(raw)
	}))
	defer server.Close()

	out, err := execute(t, nil, "openapi", server.URL+"/openapi.json", "--list")
	require.NoError(t, err)
	assert.Contains(t, out, "createArticle")
}

func TestOpenAPI_Errors(t *testing.T) {
	_, err := execute(t, nil, "openapi", articlesPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--operation is required")

	_, err = execute(t, nil, "openapi", articlesPath, "-O", "deleteArticle")
	require.ErrorIs(t, err, openapi.ErrOperationNotFound)

	_, err = execute(t, nil, "openapi", articlesPath, "-O", "listArticles")
	require.ErrorIs(t, err, openapi.ErrNoRequestBody)

	_, err = execute(t, nil, "openapi", articlesPath, "-O", "createArticle", "--format", "xml")
	require.ErrorIs(t, err, definition.ErrUnsupportedFormat)
}
