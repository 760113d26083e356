package progress

import (
	"sort"
	"time"
)

// DefaultBody is the template used when a builder does not set one.
const DefaultBody = "{{ spinner }} {{ message }}"

// DefaultSpinner is the frame set used when spinner is called without a name.
const DefaultSpinner = "mini_dot"

// spinnerDef is one named animation: a frame set and the duration each frame
// is held before advancing.
type spinnerDef struct {
	frames []string
	frame  time.Duration
}

// Frame sets borrowed from charmbracelet/bubbles' spinner component.
var spinners = map[string]spinnerDef{
	"line":     {frames: []string{"|", "/", "-", "\\"}, frame: 200 * time.Millisecond},
	"dot":      {frames: []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}, frame: 200 * time.Millisecond},
	"mini_dot": {frames: []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}, frame: 200 * time.Millisecond},
	"jump":     {frames: []string{"⢄", "⢂", "⢁", "⡁", "⡈", "⡐", "⡠"}, frame: 200 * time.Millisecond},
	"pulse":    {frames: []string{"█", "▓", "▒", "░"}, frame: 200 * time.Millisecond},
	"points":   {frames: []string{"∙∙∙", "●∙∙", "∙●∙", "∙∙●"}, frame: 200 * time.Millisecond},
	"globe":    {frames: []string{"🌍", "🌎", "🌏"}, frame: 400 * time.Millisecond},
	"moon":     {frames: []string{"🌑", "🌒", "🌓", "🌔", "🌕", "🌖", "🌗", "🌘"}, frame: 400 * time.Millisecond},
	"meter":    {frames: []string{"▱▱▱", "▰▱▱", "▰▰▱", "▰▰▰", "▰▰▱", "▰▱▱", "▱▱▱"}, frame: 400 * time.Millisecond},
	"ellipsis": {frames: []string{"   ", ".  ", ".. ", "..."}, frame: 200 * time.Millisecond},
	"arrow":    {frames: []string{"←", "↖", "↑", "↗", "→", "↘", "↓", "↙"}, frame: 200 * time.Millisecond},
	"triangle": {frames: []string{"◢", "◣", "◤", "◥"}, frame: 200 * time.Millisecond},
	"square":   {frames: []string{"◰", "◳", "◲", "◱"}, frame: 200 * time.Millisecond},
	"circle":   {frames: []string{"◴", "◷", "◶", "◵"}, frame: 200 * time.Millisecond},
	"bounce":   {frames: []string{"⠁", "⠂", "⠄", "⠂"}, frame: 200 * time.Millisecond},
	"arc":      {frames: []string{"◜", "◠", "◝", "◞", "◡", "◟"}, frame: 200 * time.Millisecond},
	"star":     {frames: []string{"✶", "✸", "✹", "✺", "✹", "✷"}, frame: 200 * time.Millisecond},
	"clock":    {frames: []string{"🕐", "🕑", "🕒", "🕓", "🕔", "🕕", "🕖", "🕗", "🕘", "🕙", "🕚", "🕛"}, frame: 200 * time.Millisecond},
	"grow_vertical": {
		frames: []string{"▁", "▂", "▃", "▄", "▅", "▆", "▇", "█", "▇", "▆", "▅", "▄", "▃", "▂"},
		frame:  200 * time.Millisecond,
	},
	"grow_horizontal": {
		frames: []string{"▏", "▎", "▍", "▌", "▋", "▊", "▉", "█", "▉", "▊", "▋", "▌", "▍", "▎"},
		frame:  200 * time.Millisecond,
	},
}

// SpinnerNames returns the available spinner style names, sorted.
func SpinnerNames() []string {
	names := make([]string, 0, len(spinners))
	for name := range spinners {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// spinnerFrame returns the frame to show for the named spinner after the
// given elapsed time. Unknown names fall back to the default set.
func spinnerFrame(name string, elapsed time.Duration) string {
	def, ok := spinners[name]
	if !ok {
		def = spinners[DefaultSpinner]
	}
	i := int(elapsed/def.frame) % len(def.frames)
	if i < 0 {
		i = 0
	}
	return def.frames[i]
}
