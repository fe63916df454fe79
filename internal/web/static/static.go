package static

import "embed"

//go:embed scripts css
var FS embed.FS
