package filter

// remoteKeywords mark a posting as remote when found in its title,
// location or description.
var remoteKeywords = []string{
	"remote", "remoto", "remota", "home office", "home-office", "teletrabalho",
	"trabalho remoto", "work from home", "wfh", "anywhere", "distributed",
}

// countryGroups lists names that refer to the same country. Entries are
// accent folded.
var countryGroups = [][]string{
	{"brasil", "brazil", "br"},
	{"estados unidos", "united states", "usa", "us", "eua"},
	{"reino unido", "united kingdom", "uk", "gb", "inglaterra", "england"},
	{"alemanha", "germany", "deutschland", "de"},
	{"franca", "france", "fr"},
	{"espanha", "spain", "espana", "es"},
	{"portugal", "pt"},
	{"canada", "ca"},
	{"mexico", "mx"},
	{"argentina", "ar"},
	{"holanda", "netherlands", "paises baixos", "nl"},
	{"italia", "italy", "it"},
	{"australia", "au"},
	{"india", "in"},
	{"irlanda", "ireland", "ie"},
}

// jobTypeCategories maps role words to the tagger categories that satisfy
// them when neither the phrase nor enough of its words match directly.
var jobTypeCategories = map[string][]string{
	"desenvolvedor":  {"programming"},
	"developer":      {"programming"},
	"programador":    {"programming"},
	"engenheiro":     {"programming"},
	"engineer":       {"programming"},
	"software":       {"programming"},
	"frontend":       {"frontend"},
	"front-end":      {"frontend"},
	"backend":        {"backend"},
	"back-end":       {"backend"},
	"fullstack":      {"fullstack", "frontend", "backend"},
	"full-stack":     {"fullstack", "frontend", "backend"},
	"mobile":         {"mobile"},
	"android":        {"mobile"},
	"ios":            {"mobile"},
	"devops":         {"devops"},
	"sre":            {"devops"},
	"infraestrutura": {"devops"},
	"cloud":          {"devops"},
	"dados":          {"data"},
	"data":           {"data"},
	"analista":       {"data"},
	"cientista":      {"data"},
	"designer":       {"design"},
	"design":         {"design"},
	"ux":             {"design"},
	"produto":        {"design"},
	"seguranca":      {"security"},
	"security":       {"security"},
	"qa":             {"qa"},
	"testes":         {"qa"},
	"tester":         {"qa"},
}
