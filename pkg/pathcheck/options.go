package pathcheck

// config holds validation requirements.
type config struct {
	mustExist      bool
	mustBeFile     bool
	mustBeReadable bool
	mustBeWritable bool
	base           string
	policies       []Policy
}

// Policy inspects the raw, unresolved path string and returns an error to
// reject it. Policies run before any filesystem access.
type Policy func(raw string) error

// Option configures Validate.
type Option func(*config)

// MustExist requires the path to exist.
func MustExist() Option {
	return func(c *config) {
		c.mustExist = true
	}
}

// MustBeFile requires the path to be a regular file. Implies MustExist.
func MustBeFile() Option {
	return func(c *config) {
		c.mustExist = true
		c.mustBeFile = true
	}
}

// MustBeReadable requires the path to be openable for reading. Implies
// MustExist.
func MustBeReadable() Option {
	return func(c *config) {
		c.mustExist = true
		c.mustBeReadable = true
	}
}

// MustBeWritable requires that the path can be opened for writing. For a
// path that does not exist yet, the parent directory must exist.
func MustBeWritable() Option {
	return func(c *config) {
		c.mustBeWritable = true
	}
}

// WithinBase confines the resolved path to the given base directory.
// Paths resolving outside it are rejected with a path validation error.
func WithinBase(dir string) Option {
	return func(c *config) {
		c.base = dir
	}
}

// WithPolicy adds a pre-resolution policy check. Policies run in order
// against the raw path string before it is resolved.
func WithPolicy(p Policy) Option {
	return func(c *config) {
		c.policies = append(c.policies, p)
	}
}
