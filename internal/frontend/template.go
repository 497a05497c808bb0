package frontend

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"

	"github.com/Fayaz1306/miniproject-spacetitanic/internal/prediction"
)

var (
	scriptTagRegex = regexp.MustCompile(`<script([^>]*)>`)
	styleTagRegex  = regexp.MustCompile(`<link([^>]*rel=["']stylesheet["'][^>]*)>`)
)

// ResultPage is the data behind the server-rendered prediction page
type ResultPage struct {
	Nonce   string
	Form    prediction.PassengerRecord
	Result  prediction.PredictionResult
	Summary prediction.Summary
}

// LoadIndexTemplate loads index.html and adds nonce placeholders to its scripts and stylesheets
func LoadIndexTemplate(distFS fs.FS) (*template.Template, error) {
	indexFile, err := distFS.Open("index.html")
	if err != nil {
		return nil, fmt.Errorf("failed to open index.html: %w", err)
	}
	defer indexFile.Close()

	htmlContent, err := io.ReadAll(indexFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read index.html: %w", err)
	}

	tmpl, err := template.New("index").Parse(processHTMLForNonce(string(htmlContent)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}

	return tmpl, nil
}

// LoadResultTemplate parses the embedded result page
func LoadResultTemplate() (*template.Template, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/result.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse result template: %w", err)
	}
	return tmpl, nil
}

func processHTMLForNonce(html string) string {
	html = scriptTagRegex.ReplaceAllString(html, `<script nonce="{{.Nonce}}"$1>`)
	html = styleTagRegex.ReplaceAllString(html, `<link nonce="{{.Nonce}}"$1>`)
	return html
}

// RenderIndex renders the index.html template with the provided nonce
func RenderIndex(c *gin.Context, tmpl *template.Template, nonce string) error {
	return render(c, tmpl, map[string]interface{}{"Nonce": nonce})
}

// RenderResult renders the prediction result page
func RenderResult(c *gin.Context, tmpl *template.Template, page ResultPage) error {
	return render(c, tmpl, page)
}

func render(c *gin.Context, tmpl *template.Template, data interface{}) error {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Header("Pragma", "no-cache")
	c.Header("Expires", "0")

	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
	return nil
}
