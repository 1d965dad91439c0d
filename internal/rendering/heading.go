package rendering

import "github.com/jonathan/resume-rewrite/internal/types"

// projectHeading is the layout used for the first lines of a project entry
type projectHeading interface {
	write(w *writer, p types.Project)
}

// detailedHeading is a two-line layout: title and date, then summary and location
type detailedHeading struct{}

// compactHeading is a single line with title and date
type compactHeading struct{}

// headingFor selects the detailed layout when the project carries a summary or location
func headingFor(p types.Project) projectHeading {
	if p.Summary != "" || p.Location != "" {
		return detailedHeading{}
	}
	return compactHeading{}
}

func (detailedHeading) write(w *writer, p types.Project) {
	w.line(`  \resumeSubheading`)
	w.line(`    {\textbf{`, EscapeLaTeX(p.Title), `}}{`, EscapeLaTeX(p.Date), `}`)
	w.line(`    {`, EscapeLaTeX(p.Summary), `}{`, EscapeLaTeX(p.Location), `}`)
	w.line(`    \vspace{-3pt}`)
}

func (compactHeading) write(w *writer, p types.Project) {
	w.line(`  \resumeProjectHeading`)
	w.line(`    {\textbf{`, EscapeLaTeX(p.Title), `}}{`, EscapeLaTeX(p.Date), `}`)
}
