package handlers

import (
	"html/template"
	"net/http"

	"movie-ratings/internal/views"
)

const swaggerAssets = "https://unpkg.com/swagger-ui-dist@5.10.0"

// docsPage is the API console: a strip of links to every view in the
// catalog followed by Swagger UI pointed at the generated document.
var docsPage = template.Must(template.New("docs").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>{{.Title}}</title>
    <link rel="stylesheet" href="{{.Assets}}/swagger-ui.css">
    <style>
        body { margin: 0; font-family: sans-serif; }
        nav.views { padding: 8px 20px; background: #1b1b1b; }
        nav.views a { color: #89bf04; margin-right: 14px; font-size: 13px; text-decoration: none; }
    </style>
</head>
<body>
    <nav class="views">
        {{range .Views}}<a href="/api/views/{{.ID}}" title="{{.Kind}}">{{.Title}}</a>{{end}}
    </nav>
    <div id="swagger-ui"></div>
    <script src="{{.Assets}}/swagger-ui-bundle.js"></script>
    <script>
        window.onload = function() {
            window.ui = SwaggerUIBundle({
                url: {{.DocumentURL}},
                dom_id: "#swagger-ui",
                deepLinking: true,
                defaultModelsExpandDepth: 0,
                tryItOutEnabled: true
            });
        };
    </script>
</body>
</html>`))

type docsPageData struct {
	Title       string
	Assets      string
	DocumentURL string
	Views       []views.Descriptor
}

// SwaggerUI serves the interactive API console.
func SwaggerUI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := docsPage.Execute(w, docsPageData{
		Title:       "Movie Ratings API",
		Assets:      swaggerAssets,
		DocumentURL: "/api/docs/openapi.json",
		Views:       views.Catalog(),
	})
	if err != nil {
		http.Error(w, "failed to render docs page", http.StatusInternalServerError)
	}
}
