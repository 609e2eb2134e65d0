package playground

// Config holds environment-driven playground settings.
type Config struct {
	SchemaFile string `env:"PLAYGROUND_SCHEMA"`                          // SchemaFile replaces SignupRules with a JSON Schema when set.
	AvatarDir  string `env:"PLAYGROUND_AVATAR_DIR" envDefault:"avatars"` // AvatarDir is the upload directory for avatars.
}
