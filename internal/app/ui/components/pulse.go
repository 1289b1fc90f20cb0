package components

import (
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
)

const (
	pulseEmpty = "○"
	pulseFull  = "●"

	// Spring physics parameters
	pulseAngularFrequency = 6.0
	pulseDampingRatio     = 0.6

	// One beat per second: lit for 3 ticks, dark for 7
	pulseOnTicks  = 3
	pulseOffTicks = UITicksPerSecond - pulseOnTicks

	pulseFrameThreshold = 0.5
)

// Pulse animates the live indicator shown while auto-refresh is on
type Pulse struct {
	spring   harmonica.Spring
	position float64
	velocity float64
	target   float64
	active   bool
	ticks    int
}

// NewPulse creates a stopped pulse
func NewPulse() *Pulse {
	return &Pulse{
		spring: harmonica.NewSpring(harmonica.FPS(UITicksPerSecond), pulseAngularFrequency, pulseDampingRatio),
	}
}

// Start begins the animation lit
func (p *Pulse) Start() {
	if p.active {
		return
	}

	p.active = true
	p.ticks = 0
	p.target = 1
	p.position = 1
}

// Stop ends the animation and resets it
func (p *Pulse) Stop() {
	p.active = false
	p.ticks = 0
	p.target = 0
	p.position = 0
	p.velocity = 0
}

// Update advances the animation by one UI tick
func (p *Pulse) Update() {
	if !p.active {
		return
	}

	p.ticks = (p.ticks + 1) % (pulseOnTicks + pulseOffTicks)

	if p.ticks < pulseOnTicks {
		p.target = 1
	} else {
		p.target = 0
	}

	p.position, p.velocity = p.spring.Update(p.position, p.velocity, p.target)
}

// Frame returns the current glyph, empty when stopped
func (p *Pulse) Frame() string {
	if !p.active {
		return ""
	}

	if p.position < pulseFrameThreshold {
		return pulseEmpty
	}

	return pulseFull
}

// Render returns the styled frame
func (p *Pulse) Render(style lipgloss.Style) string {
	return style.Render(p.Frame())
}

// IsActive reports whether the animation is running
func (p *Pulse) IsActive() bool {
	return p.active
}
