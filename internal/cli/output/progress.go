package output

import (
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// Progress is a terminal progress bar. A nil *Progress is valid and does
// nothing, which is what non-interactive modes get.
type Progress struct {
	p   *mpb.Progress
	bar *mpb.Bar
}

// NewProgress starts a bar on the diagnostics writer when rendering styled
// text to a terminal; otherwise it returns nil.
func (r *Renderer) NewProgress(name string, total int) *Progress {
	if total <= 0 || r.EffectiveMode() != ModeText || !r.isTTY {
		return nil
	}
	p := mpb.New(mpb.WithOutput(r.errOut), mpb.WithWidth(60))
	bar := p.AddBar(int64(total),
		mpb.PrependDecorators(
			decor.Name(name+" "),
			decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
		),
		mpb.AppendDecorators(
			decor.OnComplete(decor.Percentage(decor.WC{W: 5}), "done"),
		),
	)
	return &Progress{p: p, bar: bar}
}

// Set moves the bar to n.
func (p *Progress) Set(n int) {
	if p == nil {
		return
	}
	p.bar.SetCurrent(int64(n))
}

// Done stops the bar, dropping it if it never completed, and waits for
// the final render.
func (p *Progress) Done() {
	if p == nil {
		return
	}
	if !p.bar.Completed() {
		p.bar.Abort(false)
	}
	p.p.Wait()
}
