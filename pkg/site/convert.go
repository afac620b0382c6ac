package site

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
)

// Converter renders one notebook into a standalone HTML document.
type Converter interface {
	Convert(notebook, outDir, outName string, execute bool) error
}

// NbConvert runs jupyter nbconvert with the classic template.
type NbConvert struct{}

// NewNbConvert returns a Converter backed by the jupyter binary on PATH.
func NewNbConvert() *NbConvert {
	return &NbConvert{}
}

// Convert renders notebook to outDir/outName with images embedded. Cells
// tagged hide-input lose their input, cells tagged remove-output lose their
// outputs.
func (n *NbConvert) Convert(notebook, outDir, outName string, execute bool) error {
	args := []string{
		"nbconvert",
		"--to", "html",
		"--template=classic",
		"--HTMLExporter.embed_images=True",
		"--TagRemovePreprocessor.enabled=True",
		"--TagRemovePreprocessor.remove_input_tags=hide-input",
		"--TagRemovePreprocessor.remove_all_outputs_tags=remove-output",
		"--output", outName,
		"--output-dir", outDir,
	}
	if execute {
		args = append(args, "--execute")
	}
	args = append(args, notebook)

	cmd := exec.Command("jupyter", args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("nbconvert %s: %s: %w", notebook, msg, err)
		}
		return fmt.Errorf("nbconvert %s: %w", notebook, err)
	}
	return nil
}

// wideCSS overrides the classic nbconvert layout: full width, no prompt
// gutter, centered outputs, justified text.
const wideCSS = `<style id="wide-notebook">
#notebook-container {
  width: 100% !important;
  max-width: none !important;
  padding-top: 0 !important;
  margin-top: 0 !important;
  box-shadow: none !important;
  border: 0 !important;
}
.container, .container-fluid {
  width: 100% !important;
  max-width: none !important;
}
div#notebook {
  width: 100% !important;
}
html, body {
  margin: 0 !important;
  padding: 0 !important;
}
#notebook {
  padding-left: 12px !important;
  padding-right: 12px !important;
}
div.cell {
  padding-left: 0 !important;
  padding-right: 0 !important;
}
div.prompt,
div.prompt.input_prompt,
div.prompt.output_prompt {
  display: none !important;
}
div.output_area {
  display: block !important;
  width: 100% !important;
  margin-left: 0 !important;
}
div.output_area .output_subarea {
  display: flex !important;
  justify-content: center !important;
}
div.output_area .output_subarea > * {
  max-width: 100%;
}
div.output_area img,
div.output_area svg {
  display: block;
  margin: 0 auto;
}
#notebook .text_cell_render p,
#notebook .text_cell_render h1,
#notebook .text_cell_render h2,
#notebook .text_cell_render h3,
#notebook .text_cell_render h4,
#notebook .text_cell_render h5,
#notebook .text_cell_render h6 {
  text-indent: 55px;
}
#notebook .text_cell_render ul p,
#notebook .text_cell_render ol p {
  text-indent: 0;
}
#notebook ul,
#notebook ol {
  margin-left: 55px;
}
#notebook p,
#notebook li {
  text-align: justify;
  hyphens: auto;
  -webkit-hyphens: auto;
  -ms-hyphens: auto;
}
.simulation-box,
.deps-box {
  max-width: 1200px;
  margin: 24px auto;
}
div.output_html.rendered_html {
  max-width: 100% !important;
  width: 100% !important;
  padding-left: 0 !important;
  padding-right: 0 !important;
}
div.output_html.rendered_html.output_subarea {
  padding-top: 0 !important;
  padding-bottom: 0 !important;
}
.fullwidth-center {
  width: 100%;
  display: flex;
  justify-content: center;
}
</style>`

var bodyTag = regexp.MustCompile(`<body[^>]*>`)

// widenNotebookHTML injects wideCSS into a rendered notebook page. Pages
// that already carry the style block are left untouched; a page that cannot
// be read is skipped rather than failing the build.
func widenNotebookHTML(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	doc := string(data)

	if strings.Contains(doc, `id="wide-notebook"`) {
		return
	}

	switch {
	case strings.Contains(doc, "</head>"):
		doc = strings.Replace(doc, "</head>", wideCSS+"\n</head>", 1)
	case bodyTag.MatchString(doc):
		loc := bodyTag.FindStringIndex(doc)
		doc = doc[:loc[1]] + "\n" + wideCSS + doc[loc[1]:]
	default:
		doc = wideCSS + "\n" + doc
	}

	_ = os.WriteFile(path, []byte(doc), 0644)
}
