package tagger

import "jobmate/search-service/internal/model"

type category struct {
	name     string
	keywords []string
}

// categories are tested in this order, which is also the output order.
var categories = []category{
	{"programming", []string{
		"programação", "programming", "developer", "desenvolvedor", "software",
		"code", "código", "coder", "programador", "development", "desenvolvimento",
	}},
	{"frontend", []string{
		"frontend", "front-end", "front end", "html", "css", "javascript",
		"react", "angular", "vue", "ui", "interface", "web",
	}},
	{"backend", []string{
		"backend", "back-end", "back end", "servidor", "server", "api",
		"banco de dados", "database", "java", "python", "php", "node", "c#", ".net",
	}},
	{"fullstack", []string{
		"fullstack", "full-stack", "full stack", "front e back", "front and back",
	}},
	{"mobile", []string{
		"mobile", "android", "ios", "swift", "kotlin", "react native", "flutter",
	}},
	{"devops", []string{
		"devops", "cloud", "aws", "azure", "gcp", "infraestrutura", "infrastructure",
		"sre", "kubernetes", "docker", "ci/cd", "pipeline",
	}},
	{"data", []string{
		"dados", "data", "analytics", "análise", "analysis", "scientist", "science",
		"bi", "business intelligence", "big data", "machine learning", "ml",
		"inteligência artificial", "artificial intelligence", "ai",
	}},
	{"design", []string{
		"design", "ux", "ui", "user experience", "user interface", "produto", "product",
	}},
	{"security", []string{
		"security", "segurança", "cybersecurity", "cibersegurança", "hacker",
		"pentest", "penetration testing", "teste de invasão", "vulnerabilidade",
		"vulnerability",
	}},
	{"qa", []string{
		"qa", "quality assurance", "garantia de qualidade", "teste", "testing",
		"testador", "tester", "automação", "automation",
	}},
}

// techKeywords is matched on word boundaries; output keeps this order.
var techKeywords = []string{
	// languages
	"javascript", "python", "java", "c#", "c++", "ruby", "php", "go", "golang",
	"swift", "kotlin", "typescript", "scala", "rust", "objective-c", "r", "perl",
	"haskell",

	// frameworks
	"react", "angular", "vue", "ember", "svelte", "jquery", "backbone", "next.js",
	"nuxt", "spring", "django", "flask", "laravel", "symfony", "rails", "express",
	"nest.js", "asp.net", ".net core", "blazor", "flutter", "react native", "xamarin",

	// data stores
	"sql", "mysql", "postgresql", "oracle", "sql server", "mongodb", "cassandra",
	"redis", "elasticsearch", "dynamodb", "firebase", "neo4j", "couchdb", "supabase",

	// cloud and ops
	"aws", "azure", "gcp", "google cloud", "docker", "kubernetes", "terraform",
	"jenkins", "circleci", "travis", "github actions", "gitlab ci", "ansible",
	"chef", "puppet", "prometheus", "grafana", "logstash", "kibana", "elk",

	// web tooling
	"html", "css", "sass", "less", "tailwind", "bootstrap", "material-ui",
	"styled-components", "webpack", "babel", "eslint", "prettier", "storybook",
	"jest", "cypress", "redux",

	// mobile
	"ios", "android", "ionic", "cordova", "capacitor",

	// data and ml
	"tableau", "power bi", "looker", "qlik", "pandas", "numpy", "scikit-learn",
	"tensorflow", "pytorch", "keras", "hadoop", "spark", "kafka", "airflow",
	"jupyter", "matplotlib", "seaborn", "dbt", "snowflake",
}

type seniorityLevel struct {
	level    model.Seniority
	keywords []string
}

// seniorityLevels are tested in priority order; the first hit wins.
var seniorityLevels = []seniorityLevel{
	{model.SeniorityJunior, []string{
		"junior", "júnior", "jr", "trainee", "estágio", "estagiário", "internship",
		"intern", "aprendiz", "iniciante", "entry level", "entry-level",
	}},
	{model.SeniorityMid, []string{
		"pleno", "mid", "mid-level", "intermediário", "intermediate",
	}},
	{model.SenioritySenior, []string{
		"senior", "sênior", "sr", "specialist", "especialista", "advanced",
		"avançado", "experienced", "experiente",
	}},
	{model.SeniorityLead, []string{
		"lead", "líder", "tech lead", "team lead", "líder técnico", "coordenador",
		"coordinator", "gerente", "manager", "gestor",
	}},
}
