package domain

import "crashrelay/internal/platform/config"

// Config is the validated intake configuration
type Config struct {
	// WorkDir is where per-upload workspaces are created; empty means the OS temp dir
	WorkDir string `validate:"omitempty,dir"`

	// MaxUpload bounds the multipart body in bytes
	MaxUpload int64 `validate:"gt=0"`

	NeedSendReport bool
	UserMessage    string
	DumpType       int `validate:"gte=0"`
}

// DefaultMaxUpload is used when CORE_API_MAX_UPLOAD is unset
const DefaultMaxUpload = 64 << 20

// ConfigFrom reads INTAKE_* keys and CORE_API_MAX_UPLOAD
func ConfigFrom(root config.Conf) Config {
	ic := root.Prefix("INTAKE_")
	return Config{
		WorkDir:        ic.MayString("WORK_DIR", ""),
		MaxUpload:      root.Prefix("CORE_API_").MayBytes("MAX_UPLOAD", DefaultMaxUpload),
		NeedSendReport: ic.MayBool("NEED_SEND_REPORT", true),
		UserMessage:    ic.MayString("USER_MESSAGE", ""),
		DumpType:       ic.MayInt("DUMP_TYPE", 1),
	}
}

// Directive returns the getInfo answer for this configuration
func (c Config) Directive() Directive {
	return Directive{NeedSendReport: c.NeedSendReport, UserMessage: c.UserMessage, DumpType: c.DumpType}
}
