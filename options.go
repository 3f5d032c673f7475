package rowset

// Option configures a RowStore.
type Option func(*options)

type options struct {
	validator SchemaValidator
	logger    *Logger
	rows      []Row
}

// WithValidator attaches a schema validator to the store.
func WithValidator(v SchemaValidator) Option {
	return func(o *options) {
		o.validator = v
	}
}

// WithLogger sets the logger used by the store and its cursors.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithRows loads rows into the store once it is constructed, after the
// validator is attached.
func WithRows(rows []Row) Option {
	return func(o *options) {
		o.rows = rows
	}
}
