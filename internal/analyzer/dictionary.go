package analyzer

import (
	"sort"
	"strings"
	"unicode"
)

// Entry is a dictionary term together with its display name.
type Entry struct {
	Term      string
	Canonical string
}

// Dictionary is an immutable set of known skill terms. It is safe for concurrent use.
type Dictionary struct {
	entries []Entry
	names   map[string]string
}

var defaultTerms = []string{
	// frontend
	"angular", "angularjs", "react", "reactjs", "react native", "vue", "vuejs", "vue.js", "svelte",
	"next.js", "nextjs", "nuxt", "ember", "backbone", "jquery",
	"html", "html5", "css", "css3", "javascript", "js", "typescript", "ts", "jsx", "tsx",
	"responsive design", "bootstrap", "tailwind", "tailwindcss", "sass", "scss", "styled-components",
	"webpack", "vite", "parcel", "rollup", "gulp", "grunt", "esbuild", "browserify",
	"redux", "mobx", "zustand", "recoil", "vuex", "pinia", "rxjs", "observables",
	"material ui", "antd", "chakra ui",

	// backend
	"nodejs", "node.js", "express", "nest", "nestjs", "fastify", "koa", "hapi", "restify",
	"python", "django", "flask", "fastapi", "celery", "tornado",
	"java", "kotlin", "scala", "spring", "springboot", "spring boot", "maven", "gradle", "hibernate",
	"csharp", "c#", "dotnet", ".net", "asp.net", "aspnet",
	"c++", "ruby", "rails", "ruby on rails", "sinatra",
	"go", "golang", "rust", "php", "laravel", "symfony", "codeigniter", "elixir", "swift",
	"rest", "restapi", "rest api", "graphql", "grpc", "websocket", "websockets", "mqtt", "amqp",
	"microservices", "kafka", "rabbitmq",

	// data
	"sql", "mysql", "postgresql", "postgres", "oracle", "mssql", "sqlite", "mariadb",
	"mongodb", "mongo", "nosql", "firebase", "firestore", "dynamodb", "cosmosdb", "couchdb",
	"supabase", "redis", "memcached", "elasticsearch", "cassandra", "neo4j", "influxdb",
	"spark", "hadoop", "airflow", "pandas", "numpy",

	// cloud and devops
	"docker", "kubernetes", "k8s", "helm", "docker swarm", "rancher", "openshift",
	"aws", "azure", "gcp", "google cloud", "heroku", "vercel", "netlify", "fly.io",
	"cicd", "ci/cd", "jenkins", "github actions", "gitlab ci", "circleci", "travis ci", "buildkite",
	"terraform", "ansible", "cloudformation", "pulumi", "bicep",
	"linux", "bash", "shell scripting", "powershell", "git", "github", "gitlab", "bitbucket",
	"nginx", "prometheus", "grafana", "datadog",

	// testing
	"testing", "unit testing", "jest", "mocha", "jasmine", "vitest", "playwright", "cypress", "e2e",
	"selenium", "puppeteer", "protractor", "testcafe", "webdriverio",
	"junit", "pytest", "unittest", "rspec", "mockito", "sinon",
	"tdd", "bdd", "code coverage", "sonarqube", "code review",

	// tools
	"jira", "confluence", "slack", "asana", "trello", "notion",
	"vscode", "intellij", "webstorm", "visual studio",
	"figma", "sketch", "adobe xd", "photoshop", "illustrator",
	"postman", "swagger", "openapi", "api", "documentation",

	// practices and soft skills
	"leadership", "communication", "teamwork", "collaboration", "problem solving",
	"agile", "scrum", "kanban", "waterfall", "sprint planning",
	"project management", "mentoring", "stakeholder management",
	"security", "oauth", "jwt", "saml", "encryption",
	"performance optimization", "caching", "cdn", "lazy loading",
	"monitoring", "logging", "alerting", "observability",
	"machine learning", "ml", "ai", "deep learning", "tensorflow", "pytorch", "scikit-learn",
}

var canonicalNames = map[string]string{
	"angularjs":      "AngularJS",
	"reactjs":        "React.js",
	"vuejs":          "Vue.js",
	"vue.js":         "Vue.js",
	"nextjs":         "Next.js",
	"next.js":        "Next.js",
	"nodejs":         "Node.js",
	"node.js":        "Node.js",
	"js":             "JavaScript",
	"javascript":     "JavaScript",
	"ts":             "TypeScript",
	"typescript":     "TypeScript",
	"html5":          "HTML5",
	"html":           "HTML",
	"css3":           "CSS3",
	"css":            "CSS",
	"jsx":            "JSX",
	"tsx":            "TSX",
	"scss":           "SCSS",
	"rxjs":           "RxJS",
	"mobx":           "MobX",
	"tailwindcss":    "Tailwind CSS",
	"nestjs":         "NestJS",
	"fastapi":        "FastAPI",
	"springboot":     "Spring Boot",
	"csharp":         "C#",
	"c#":             "C#",
	"c++":            "C++",
	"dotnet":         ".NET",
	".net":           ".NET",
	"asp.net":        "ASP.NET",
	"aspnet":         "ASP.NET",
	"golang":         "Go",
	"php":            "PHP",
	"rest":           "REST API",
	"restapi":        "REST API",
	"rest api":       "REST API",
	"graphql":        "GraphQL",
	"grpc":           "gRPC",
	"websocket":      "WebSockets",
	"websockets":     "WebSockets",
	"mqtt":           "MQTT",
	"amqp":           "AMQP",
	"rabbitmq":       "RabbitMQ",
	"sql":            "SQL",
	"mysql":          "MySQL",
	"postgres":       "PostgreSQL",
	"postgresql":     "PostgreSQL",
	"mssql":          "MS SQL",
	"sqlite":         "SQLite",
	"mariadb":        "MariaDB",
	"mongo":          "MongoDB",
	"mongodb":        "MongoDB",
	"nosql":          "NoSQL",
	"dynamodb":       "DynamoDB",
	"cosmosdb":       "Cosmos DB",
	"couchdb":        "CouchDB",
	"influxdb":       "InfluxDB",
	"numpy":          "NumPy",
	"k8s":            "Kubernetes",
	"aws":            "AWS",
	"gcp":            "GCP",
	"cicd":           "CI/CD",
	"ci/cd":          "CI/CD",
	"circleci":       "CircleCI",
	"cloudformation": "CloudFormation",
	"powershell":     "PowerShell",
	"github":         "GitHub",
	"gitlab":         "GitLab",
	"gitlab ci":      "GitLab CI",
	"e2e":            "E2E Testing",
	"testcafe":       "TestCafe",
	"webdriverio":    "WebdriverIO",
	"junit":          "JUnit",
	"pytest":         "pytest",
	"rspec":          "RSpec",
	"tdd":            "TDD",
	"bdd":            "BDD",
	"sonarqube":      "SonarQube",
	"vscode":         "VS Code",
	"intellij":       "IntelliJ IDEA",
	"webstorm":       "WebStorm",
	"adobe xd":       "Adobe XD",
	"openapi":        "OpenAPI",
	"api":            "API",
	"oauth":          "OAuth",
	"jwt":            "JWT",
	"saml":           "SAML",
	"cdn":            "CDN",
	"ml":             "Machine Learning",
	"ai":             "AI",
	"tensorflow":     "TensorFlow",
	"pytorch":        "PyTorch",
	"antd":           "Ant Design",
}

// DefaultDictionary returns the built-in skill dictionary.
func DefaultDictionary() *Dictionary {
	return NewDictionary(nil)
}

// NewDictionary builds a dictionary from the built-in terms plus extra
// term -> canonical entries. An empty canonical name falls back to title case.
func NewDictionary(extra map[string]string) *Dictionary {
	names := make(map[string]string, len(defaultTerms)+len(extra))
	for _, term := range defaultTerms {
		names[term] = CanonicalName(term)
	}

	for term, canonical := range extra {
		term = Normalize(term)
		if Key(term) == "" {
			continue
		}
		if strings.TrimSpace(canonical) == "" {
			canonical = titleCase(term)
		}
		names[term] = strings.TrimSpace(canonical)
	}

	entries := make([]Entry, 0, len(names))
	for term, canonical := range names {
		entries = append(entries, Entry{Term: term, Canonical: canonical})
	}

	// Longer terms first so multi-word phrases win the canonical slot over their parts.
	sort.Slice(entries, func(i, j int) bool {
		if len(entries[i].Term) != len(entries[j].Term) {
			return len(entries[i].Term) > len(entries[j].Term)
		}
		return entries[i].Term < entries[j].Term
	})

	return &Dictionary{entries: entries, names: names}
}

// Entries returns a copy of the dictionary entries in scan order.
func (d *Dictionary) Entries() []Entry {
	out := make([]Entry, len(d.entries))
	copy(out, d.entries)
	return out
}

func (d *Dictionary) Len() int {
	return len(d.entries)
}

// Lookup returns the display name of a normalized term.
func (d *Dictionary) Lookup(term string) (string, bool) {
	name, ok := d.names[term]
	return name, ok
}

// CanonicalName maps a known abbreviation to its display name or title-cases the term.
func CanonicalName(term string) string {
	lower := strings.ToLower(strings.TrimSpace(term))
	if name, ok := canonicalNames[lower]; ok {
		return name
	}

	return titleCase(lower)
}

// titleCase capitalizes every fragment delimited by '-', '/', '.', '#' or a space,
// keeping the delimiters.
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	upperNext := true
	for _, r := range s {
		switch r {
		case '-', '/', '.', '#', ' ':
			b.WriteRune(r)
			upperNext = true
			continue
		}

		if upperNext {
			b.WriteRune(unicode.ToUpper(r))
			upperNext = false
			continue
		}

		b.WriteRune(r)
	}

	return b.String()
}
