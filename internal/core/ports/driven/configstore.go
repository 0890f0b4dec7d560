package driven

// ConfigStore provides persistent key-value configuration.
// Keys use dot notation (e.g. "upload.batch_size").
type ConfigStore interface {
	Get(key string) (any, bool)
	GetString(key string) string
	GetInt(key string) int
	GetBool(key string) bool
	Set(key string, value any) error
	Save() error
	Load() error
}
