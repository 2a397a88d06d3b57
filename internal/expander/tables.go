package expander

// stopWords covers Portuguese and English function words. Tokens of two
// runes or less are already dropped, so only longer ones matter here.
var stopWords = map[string]struct{}{
	// pt
	"das": {}, "dos": {}, "para": {}, "com": {}, "por": {}, "uma": {},
	"uns": {}, "umas": {}, "nas": {}, "nos": {}, "pela": {}, "pelo": {},
	"pelas": {}, "pelos": {}, "que": {}, "sem": {}, "sob": {}, "entre": {},
	"vaga": {}, "vagas": {}, "area": {}, "área": {},
	// en
	"the": {}, "and": {}, "for": {}, "with": {}, "from": {}, "into": {},
	"job": {}, "jobs": {}, "role": {}, "position": {}, "any": {}, "all": {},
}

// compounds lists collapsed forms and their hyphenated spelling.
var compounds = map[string]string{
	"frontend":    "front-end",
	"backend":     "back-end",
	"fullstack":   "full-stack",
	"devops":      "dev-ops",
	"ecommerce":   "e-commerce",
	"reactnative": "react-native",
	"fulltime":    "full-time",
	"parttime":    "part-time",
}

// techTerms get "<term> developer" and "<term> desenvolvedor" variants.
var techTerms = map[string]struct{}{
	"frontend": {}, "backend": {}, "fullstack": {}, "mobile": {}, "web": {},
	"react": {}, "angular": {}, "vue": {}, "node": {}, "nodejs": {},
	"javascript": {}, "typescript": {}, "python": {}, "java": {},
	"golang": {}, "php": {}, "ruby": {}, "rails": {}, "django": {},
	"flutter": {}, "android": {}, "ios": {}, "kotlin": {}, "swift": {},
	"rust": {}, "scala": {}, "elixir": {}, "dotnet": {}, "net": {},
	"laravel": {}, "spring": {}, "salesforce": {}, "sap": {}, "wordpress": {},
	"unity": {}, "blockchain": {}, "cobol": {}, "delphi": {},
}

// synonymGroups are bidirectional: any member expands to the others.
var synonymGroups = [][]string{
	{"desenvolvedor", "programador", "dev", "developer", "engineer", "engenheiro"},
	{"frontend", "front-end", "front", "interface"},
	{"backend", "back-end", "back", "server", "servidor"},
	{"fullstack", "full-stack", "full stack"},
	{"javascript", "js", "ecmascript"},
	{"typescript", "ts"},
	{"react", "reactjs", "react.js"},
	{"node", "nodejs", "node.js"},
	{"vue", "vuejs", "vue.js"},
	{"golang", "go"},
	{"devops", "sre", "infraestrutura", "infrastructure"},
	{"mobile", "react-native", "app"},
	{"dados", "data", "database", "banco de dados"},
	{"analista", "analyst", "analytics"},
	{"remoto", "remote", "home office", "trabalho remoto"},
	{"junior", "jr", "júnior", "iniciante", "trainee"},
	{"pleno", "mid-level", "intermediário"},
	{"senior", "sr", "sênior", "especialista"},
	{"estagio", "estágio", "estagiário", "intern", "internship"},
	{"qa", "tester", "testador", "quality assurance"},
}

// translations map technical vocabulary between Portuguese and English.
// Lookups run in both directions.
var translations = map[string]string{
	"desenvolvedor":  "developer",
	"desenvolvedora": "developer",
	"programador":    "programmer",
	"engenheiro":     "engineer",
	"engenheira":     "engineer",
	"analista":       "analyst",
	"arquiteto":      "architect",
	"cientista":      "scientist",
	"dados":          "data",
	"segurança":      "security",
	"seguranca":      "security",
	"teste":          "test",
	"testes":         "testing",
	"gerente":        "manager",
	"líder":          "lead",
	"lider":          "lead",
	"suporte":        "support",
	"infraestrutura": "infrastructure",
	"redes":          "networks",
	"sistemas":       "systems",
	"software":       "software",
	"projetos":       "projects",
	"produto":        "product",
	"nuvem":          "cloud",
	"estágio":        "internship",
	"estagio":        "internship",
	"remoto":         "remote",

	"aprendizado de máquina":  "machine learning",
	"inteligência artificial": "artificial intelligence",
}

// related maps a term to adjacent frameworks and ecosystem vocabulary.
var related = map[string][]string{
	"react":      {"redux", "next.js", "jsx"},
	"angular":    {"rxjs", "typescript"},
	"vue":        {"nuxt", "vuex"},
	"frontend":   {"html", "css", "javascript"},
	"backend":    {"api", "microservices", "sql"},
	"fullstack":  {"frontend", "backend"},
	"node":       {"express", "nest.js"},
	"nodejs":     {"express", "nest.js"},
	"javascript": {"node", "react"},
	"typescript": {"javascript", "node"},
	"python":     {"django", "flask", "fastapi"},
	"java":       {"spring", "hibernate", "maven"},
	"golang":     {"microservices", "grpc"},
	"php":        {"laravel", "symfony"},
	"ruby":       {"rails"},
	"mobile":     {"android", "ios", "flutter"},
	"android":    {"kotlin", "java"},
	"ios":        {"swift", "objective-c"},
	"devops":     {"docker", "kubernetes", "ci/cd", "terraform"},
	"cloud":      {"aws", "azure", "gcp"},
	"dados":      {"sql", "etl", "python"},
	"data":       {"sql", "etl", "python"},
	"qa":         {"cypress", "selenium", "automation"},
	"design":     {"figma", "ux", "ui"},
	"security":   {"pentest", "owasp"},
	"segurança":  {"pentest", "owasp"},
}
