package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
)

// Monitor is one lit RandR CRTC and the output driving it.
type Monitor struct {
	ID                  int
	Name                string
	X, Y, Width, Height int
	Primary             bool
}

// Monitors lists the CRTCs that currently drive an output. Monitor ids are
// CRTC indexes, so they stay stable while the configuration does.
func (c *Connection) Monitors() ([]Monitor, error) {
	conn := c.Conn()
	if err := randr.Init(conn); err != nil {
		return nil, fmt.Errorf("randr init: %w", err)
	}

	res, err := randr.GetScreenResourcesCurrent(conn, c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("randr screen resources: %w", err)
	}

	var primary randr.Output
	if reply, err := randr.GetOutputPrimary(conn, c.Root).Reply(); err == nil {
		primary = reply.Output
	}

	var out []Monitor
	for i, crtc := range res.Crtcs {
		info, err := randr.GetCrtcInfo(conn, crtc, res.ConfigTimestamp).Reply()
		if err != nil || info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}

		m := Monitor{
			ID:     i,
			Name:   fmt.Sprintf("crtc-%d", i),
			X:      int(info.X),
			Y:      int(info.Y),
			Width:  int(info.Width),
			Height: int(info.Height),
		}
		for _, o := range info.Outputs {
			if o == primary && primary != 0 {
				m.Primary = true
			}
		}
		if oi, err := randr.GetOutputInfo(conn, info.Outputs[0], res.ConfigTimestamp).Reply(); err == nil {
			m.Name = string(oi.Name)
		}
		out = append(out, m)
	}
	return out, nil
}
