package object

// BuffDuration is how long a power-up buff lasts, in seconds.
const BuffDuration = 5.0

// Player defaults.
const (
	PlayerSize  = 30.0
	PlayerSpeed = 200.0 / ReferenceFPS
)

// Player is the user-controlled square.
type Player struct {
	Entity
	VX, VY     float64 // Velocity, set each tick from held keys
	Speed      float64 // Current speed in units per tick, buffs included
	BaseSpeed  float64 // Speed with no boosts active
	Invincible bool

	// Buff expiries in simulation seconds. Checked by ExpireBuffs each tick.
	speedBoosts     []float64
	invincibleUntil float64
}

// NewPlayer creates a player at the given top-left position.
func NewPlayer(x, y, size float64) *Player {
	return &Player{
		Entity:    Entity{X: x, Y: y, Size: size, Color: ColorPlayer},
		Speed:     PlayerSpeed,
		BaseSpeed: PlayerSpeed,
	}
}

// Update moves the player and keeps it on the canvas.
func (p *Player) Update(ctx UpdateContext) {
	p.X += p.VX * ctx.Step()
	p.Y += p.VY * ctx.Step()
	p.ClampInto(ctx.Width, ctx.Height)
}

// Draw renders the player as a filled square.
func (p *Player) Draw(s Surface) {
	s.FillRect(p.X, p.Y, p.Size, p.Size, p.Color)
}

// GrantSpeedBoost doubles the player's speed until now+BuffDuration.
// Overlapping boosts compound; each one is removed by its own expiry.
func (p *Player) GrantSpeedBoost(now float64) {
	p.speedBoosts = append(p.speedBoosts, now+BuffDuration)
	p.Speed *= 2
}

// GrantInvincibility makes the player immune to enemies until now+BuffDuration.
// A second grant while active extends the expiry.
func (p *Player) GrantInvincibility(now float64) {
	p.Invincible = true
	p.invincibleUntil = max(p.invincibleUntil, now+BuffDuration)
}

// ActiveSpeedBoosts returns how many speed boosts are in effect.
func (p *Player) ActiveSpeedBoosts() int {
	return len(p.speedBoosts)
}

// InvincibleRemaining returns seconds of invincibility left at now.
func (p *Player) InvincibleRemaining(now float64) float64 {
	if !p.Invincible {
		return 0
	}
	return max(0, p.invincibleUntil-now)
}

// ExpireBuffs drops every buff whose expiry is at or before now.
func (p *Player) ExpireBuffs(now float64) {
	kept := p.speedBoosts[:0]
	for _, until := range p.speedBoosts {
		if until > now {
			kept = append(kept, until)
			continue
		}
		p.Speed /= 2
	}
	p.speedBoosts = kept
	if len(p.speedBoosts) == 0 {
		p.Speed = p.BaseSpeed
	}

	if p.Invincible && now >= p.invincibleUntil {
		p.Invincible = false
	}
}
