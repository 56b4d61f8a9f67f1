package enums

// Option is a key/label pair rendered by clients as a select option.
type Option struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}
