package keywords

// stopwordList holds English function words plus generic résumé and job-posting
// filler that carries no signal for matching.
var stopwordList = []string{
	"a", "an", "the", "and", "or", "but", "if", "then", "else", "when",
	"at", "by", "for", "from", "in", "into", "of", "off", "on", "onto",
	"out", "over", "to", "up", "with", "about", "against", "between",
	"through", "during", "before", "after", "above", "below", "under",
	"again", "further", "once", "here", "there", "where", "why", "how",
	"all", "any", "both", "each", "few", "more", "most", "other", "some",
	"such", "no", "nor", "not", "only", "own", "same", "so", "than", "too",
	"very", "s", "t", "can", "will", "just", "don", "should", "now", "are",
	"is", "was", "were", "be", "been", "being", "have", "has", "had",
	"having", "do", "does", "did", "doing", "i", "we", "you", "he", "she",
	"it", "they", "them", "their", "theirs", "my", "your", "yours", "his",
	"her", "hers", "its", "our", "ours", "yourself", "yourselves", "himself",
	"herself", "itself", "themselves", "what", "which", "who", "whom",
	"this", "that", "these", "those", "am", "senior", "junior", "lead",
	"developer", "manager", "engineer", "description", "requirements",
	"preferred", "qualifications", "experience", "skills", "ability",
	"knowledge", "understanding", "proficient", "strong", "excellent",
	"good", "great", "working", "environment", "team", "player",
	"communication", "verbal", "written", "interpersonal", "organizational",
	"detail", "oriented", "highly", "motivated", "self", "starter",
	"job", "role", "position", "title", "responsibilities", "duties",
	"year", "years", "degree", "bachelor", "master", "phd", "diploma",
	"computer", "science", "engineering", "related", "field", "equivalent",
	"plus", "advantage", "bonus", "nice", "must", "required",
	"looking", "seeking", "candidate", "applicant", "work", "time", "full",
	"part", "contract", "remote", "hybrid", "onsite", "office", "location",
	"salary", "benefits", "competitive", "package", "opportunity", "growth",
	"career", "path", "culture", "company", "business", "client", "customer",
	"service", "product", "project", "management", "development", "software",
	"application", "system", "solution", "technical", "technology", "tool",
	"language", "framework", "library", "database", "platform", "cloud",
	"web", "mobile", "ios", "android", "frontend", "backend", "fullstack",
	"devops", "agile", "scrum", "waterfall", "methodology", "lifecycle",
	"sdlc", "testing", "quality", "assurance", "control", "continuous",
	"integration", "deployment", "delivery", "pipeline", "automation",
	"manual", "unit", "acceptance", "performance",
	"security", "scalability", "reliability", "availability", "efficiency",
	"optimization", "maintenance", "support", "documentation", "report",
	"analysis", "design", "implementation", "coding", "programming",
	"debugging", "troubleshooting", "resolution", "collaboration",
	"meeting", "stakeholder", "requirement", "specification", "user",
	"story", "case", "scenario", "diagram", "flowchart", "wireframe",
	"mockup", "prototype",
}

// stopwords is built once and only read afterwards.
var stopwords = func() map[string]struct{} {
	set := make(map[string]struct{}, len(stopwordList))
	for _, w := range stopwordList {
		set[w] = struct{}{}
	}
	return set
}()

// IsStopword reports whether token is excluded from keyword sets
func IsStopword(token string) bool {
	_, ok := stopwords[token]
	return ok
}
