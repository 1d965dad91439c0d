package rendering

import (
	_ "embed"
	"strings"

	"github.com/jonathan/resume-rewrite/internal/types"
)

//go:embed templates/preamble.tex
var preamble string

// Section spacing literals. They are fixed by the layout, not derived from content.
const (
	headerTrailer       = `\vspace{-20pt}`
	educationTrailer    = `\vspace{-26pt}`
	skillsTrailer       = `\vspace{-20pt}`
	experienceTrailer   = `\vspace{-26pt}`
	experienceSeparator = `\vspace{1pt}`
	projectSeparator    = `\vspace{0pt}`
	documentEnd         = `\end{document}`
	subHeadingListStart = `\resumeSubHeadingListStart`
	subHeadingListEnd   = `\resumeSubHeadingListEnd`
	itemListStart       = `\resumeItemListStart`
	itemListEnd         = `\resumeItemListEnd`
)

// Render produces the complete LaTeX document for a résumé.
// Sections appear in the order personal info, education, skills, experience, projects,
// and a section is omitted entirely when its data is absent or empty.
func Render(doc *types.ResumeData) string {
	var w writer
	w.raw(preamble)
	if doc != nil {
		writeHeader(&w, doc.PersonalInfo)
		writeEducation(&w, doc.Education)
		writeSkills(&w, doc.Skills)
		writeExperience(&w, doc.Experience)
		writeProjects(&w, doc.Projects)
	}
	w.line(documentEnd)
	return w.String()
}

// writer is a strings.Builder that knows about line endings
type writer struct {
	strings.Builder
}

func (w *writer) raw(s string) {
	w.WriteString(s)
}

func (w *writer) line(parts ...string) {
	for _, p := range parts {
		w.WriteString(p)
	}
	w.WriteByte('\n')
}

func writeHeader(w *writer, info *types.PersonalInfo) {
	if info == nil {
		return
	}
	w.line(`\begin{center}`)
	w.line(`    {\huge \scshape `, EscapeLaTeX(info.Name), `} \\ \vspace{1pt}`)
	w.line(`    \small \raisebox{-0.1\height}\faPhone\ `, EscapeLaTeX(info.Phone), ` ~`)
	w.line(`    \href{mailto:`, escapeHref(info.Email), `}{\raisebox{-0.2\height}\faEnvelope\  \underline{`, EscapeLaTeX(info.Email), `}} ~`)
	if info.LinkedIn != "" {
		w.line(`    \href{`, escapeHref(info.LinkedIn), `}{\raisebox{-0.2\height}\faLinkedin\ \underline{linkedin}} ~`)
	}
	if info.Portfolio != "" {
		w.line(`    \href{`, escapeHref(info.Portfolio), `}{\raisebox{-0.2\height}\Mundus\ \underline{portfolio}}`)
	}
	w.line(`\end{center}`)
	w.line(headerTrailer)
}

func writeEducation(w *writer, education []types.Education) {
	if len(education) == 0 {
		return
	}
	w.line(`\section{EDUCATION}`)
	w.line(subHeadingListStart)
	for _, edu := range education {
		w.line(`  \resumeSubheading`)
		w.line(`    {`, EscapeLaTeX(edu.School), `}{`, EscapeLaTeX(edu.Date), `}`)
		w.line(`    {`, EscapeLaTeX(edu.Degree), `}{`, EscapeLaTeX(edu.GPA), `}`)
		w.line(`    \vspace{5pt}`)
	}
	w.line(subHeadingListEnd)
	w.line(educationTrailer)
}

func writeSkills(w *writer, skills *types.Skills) {
	if skills.IsEmpty() {
		return
	}
	w.line(`\section{SKILLS}`)
	w.line(`\begin{itemize}[leftmargin=0.15in, label={}]`)
	w.line(`\vspace{-2pt}`)
	w.line(`\small{\item{`)
	for _, entry := range []struct{ label, value string }{
		{"Languages", skills.Languages},
		{"Frameworks", skills.Frameworks},
		{"Tools", skills.Tools},
	} {
		w.line(`\textbf{`, entry.label, `}{: `, EscapeLaTeX(entry.value), `} \\`)
	}
	w.line(`}}`)
	w.line(`\vspace{-2pt}`)
	w.line(`\end{itemize}`)
	w.line(skillsTrailer)
}

func writeExperience(w *writer, experience []types.Experience) {
	if len(experience) == 0 {
		return
	}
	w.line(`\section{INDUSTRIAL EXPERIENCE}`)
	w.line(subHeadingListStart)
	for i, exp := range experience {
		w.line(`  \resumeSubheading`)
		w.line(`    {`, EscapeLaTeX(exp.Title), ` -- `, EscapeLaTeX(exp.Company), `}{`, EscapeLaTeX(exp.Date), `}`)
		w.line(`    {`, EscapeLaTeX(exp.Summary), `}{`, EscapeLaTeX(exp.Location), `}`)
		w.line(`    \vspace{-10pt}`)
		writeBullets(w, exp.BulletPoints)
		if i < len(experience)-1 {
			w.line(experienceSeparator)
		}
	}
	w.line(subHeadingListEnd)
	w.line(experienceTrailer)
}

func writeProjects(w *writer, projects []types.Project) {
	if len(projects) == 0 {
		return
	}
	w.line(`\section{PROJECTS}`)
	w.line(subHeadingListStart)
	for i, proj := range projects {
		headingFor(proj).write(w, proj)
		w.line(`    \vspace{-7pt}`)
		writeBullets(w, proj.BulletPoints)
		if i < len(projects)-1 {
			w.line(projectSeparator)
		}
	}
	w.line(subHeadingListEnd)
}

func writeBullets(w *writer, bullets []types.BulletPoint) {
	w.line(`    `, itemListStart)
	for _, bp := range bullets {
		w.line(`      \resumeItem{`, EscapeLaTeX(bp.Text()), `}`)
	}
	w.line(`    `, itemListEnd)
}
