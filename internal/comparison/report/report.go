// Package report renders the HTML body of the comparison email.
package report

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"strings"
	"time"
)

// Subject is the subject line of every comparison email.
const Subject = "Quotation Comparison Report"

// DateLayout formats the "Generated on" line.
const DateLayout = "January 2, 2006"

//go:embed report.html.tmpl
var reportTemplate string

var tmpl = template.Must(template.New("report").Parse(reportTemplate))

// Input is everything the report shows. Identical inputs render identical bytes.
type Input struct {
	Date           time.Time
	Message        string
	SuccessPortals []string
	FailurePortals []string
}

type view struct {
	Title          string
	Date           string
	Message        string
	SuccessPortals []string
	FailurePortals []string
}

// Render produces the HTML document for in.
func Render(in Input) (string, error) {
	v := view{
		Title:          Subject,
		Date:           in.Date.Format(DateLayout),
		SuccessPortals: in.SuccessPortals,
		FailurePortals: in.FailurePortals,
	}
	if strings.TrimSpace(in.Message) != "" {
		v.Message = in.Message
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, v); err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return buf.String(), nil
}
