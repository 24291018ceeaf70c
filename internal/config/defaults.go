package config

// Default ports for the generated application server.
const (
	DefaultPortExpress = 3000
	DefaultPortFlask   = 5000
)

// Default ports for networked relational databases, applied when the
// credentials omit one.
const (
	DefaultPortMySQL    = 3306
	DefaultPortPostgres = 5432
)

// DefaultPort returns the default server port for a framework.
func DefaultPort(f Framework) int {
	if f == FrameworkFlask {
		return DefaultPortFlask
	}
	return DefaultPortExpress
}

// defaultDBPort returns the conventional port for a relational backend.
func defaultDBPort(d Database) int {
	if d == DBPostgres {
		return DefaultPortPostgres
	}
	return DefaultPortMySQL
}
