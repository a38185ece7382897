package export

import (
	"fmt"
	"io"
	"os"
	"text/template"

	"github.com/de-tools/reporter/pkg/models/domain"
)

const listingTemplate = `Listing all available reports:

{{range .}}{{.Title}}:
{{range .Reports}}    {{.Name}}
{{if .Description}}        {{.Description}}
{{end}}{{end}}
{{end}}For more information on how to run reports, use this command with the -h option.
`

type listingSection struct {
	Title   string
	Reports []listingEntry
}

type listingEntry struct {
	Name        string
	Description string
}

// Reporter prints report listings to the console
type Reporter struct {
	writer io.Writer
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{writer: writer}
}

// HandleListing prints the given definitions grouped by frequency, in
// daily, weekly, monthly order.
func (c *Reporter) HandleListing(groups map[domain.Frequency][]domain.Definition) error {
	sections := make([]listingSection, 0, len(domain.AllFrequencies))
	for _, f := range domain.AllFrequencies {
		section := listingSection{Title: f.Title()}
		for _, def := range groups[f] {
			section.Reports = append(section.Reports, listingEntry{
				Name:        def.Name(),
				Description: def.Description(),
			})
		}
		sections = append(sections, section)
	}

	t, err := template.New("listing").Parse(listingTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, sections)
}
