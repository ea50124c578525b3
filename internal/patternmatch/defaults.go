package patternmatch

// DefaultSpecs is a representative starter set of detection patterns,
// covering the categories spec §3 calls out by example (database, cloud,
// framework, authentication). Grounded on the representative-rule-list idiom
// of varalys-redactyl's engine.DetectorIDs() (a curated subset presented to
// users, with the real rule set expected to grow via configuration).
func DefaultSpecs() []PatternSpec {
	return []PatternSpec{
		{Name: "Postgres Driver", FileGlob: "**/*.py", ContentRegex: `\bpsycopg2\b`, Category: "database", SeverityDefault: "Medium"},
		{Name: "Postgres Driver (Go)", FileGlob: "**/*.go", ContentRegex: `\bjackc/pgx\b`, Category: "database", SeverityDefault: "Medium"},
		{Name: "MySQL Driver", FileGlob: "**/*.go", ContentRegex: `\bgo-sql-driver/mysql\b`, Category: "database", SeverityDefault: "Medium"},
		{Name: "Redis Client", FileGlob: "**/*.py", ContentRegex: `\bredis\.Redis\b`, Category: "caching", SeverityDefault: "Medium"},
		{Name: "Redis Client (Go)", FileGlob: "**/*.go", ContentRegex: `\bredis/go-redis\b`, Category: "caching", SeverityDefault: "Medium"},
		{Name: "AWS SDK", FileGlob: "**/*.go", ContentRegex: `\baws/aws-sdk-go\b`, Category: "cloud", SeverityDefault: "Medium"},
		{Name: "GCP Client", FileGlob: "**/*.go", ContentRegex: `\bcloud\.google\.com/go\b`, Category: "cloud", SeverityDefault: "Medium"},
		{Name: "Kubernetes Client", FileGlob: "**/*.go", ContentRegex: `\bk8s\.io/client-go\b`, Category: "cloud", SeverityDefault: "Medium"},
		{Name: "gRPC Framework", FileGlob: "**/*.go", ContentRegex: `\bgoogle\.golang\.org/grpc\b`, Category: "framework", SeverityDefault: "Low"},
		{Name: "Chi Router", FileGlob: "**/*.go", ContentRegex: `\bgo-chi/chi\b`, Category: "framework", SeverityDefault: "Low"},
		{Name: "JWT Auth", FileGlob: "**/*.go", ContentRegex: `\bgolang-jwt/jwt\b`, Category: "authentication", SeverityDefault: "Medium"},
		{Name: "OAuth2", FileGlob: "**/*.go", ContentRegex: `\bgolang\.org/x/oauth2\b`, Category: "authentication", SeverityDefault: "Medium"},
		{Name: "TLS Configuration", FileGlob: "**/*.go", ContentRegex: `\bcrypto/tls\b`, Category: "security", SeverityDefault: "Low"},
	}
}
