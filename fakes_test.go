package offscreen

import (
	"sync"
	"sync/atomic"

	"github.com/gogpu/offscreen/browser"
)

// fakeRuntime records calls and hands created clients back to the test,
// which drives their callbacks directly.
type fakeRuntime struct {
	loadErr   error
	initErr   error
	createErr error

	mu        sync.Mutex
	loads     int
	inits     int
	shutdowns int
	settings  browser.Settings
	clients   []browser.Client
	urls      []string
	browsers  []browser.BrowserSettings

	steps atomic.Uint64
}

func (r *fakeRuntime) Load(string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loads++
	return r.loadErr
}

func (r *fakeRuntime) Initialize(_ browser.MainArgs, s browser.Settings, _ browser.App) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.initErr != nil {
		return r.initErr
	}
	r.inits++
	r.settings = s
	return nil
}

func (r *fakeRuntime) DoMessageLoopWork() { r.steps.Add(1) }

func (r *fakeRuntime) Shutdown() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shutdowns++
}

func (r *fakeRuntime) CreateBrowser(_ browser.WindowInfo, c browser.Client, s browser.BrowserSettings, url string) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients = append(r.clients, c)
	r.urls = append(r.urls, url)
	r.browsers = append(r.browsers, s)
	return nil
}

func (r *fakeRuntime) counts() (loads, inits, shutdowns int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loads, r.inits, r.shutdowns
}

func (r *fakeRuntime) client(i int) browser.Client {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.clients[i]
}

type fakeHost struct {
	closes   atomic.Int32
	disposes atomic.Int32
}

func (h *fakeHost) CloseBrowser(bool) { h.closes.Add(1) }
func (h *fakeHost) Dispose()          { h.disposes.Add(1) }

type fakeFrame struct {
	main bool
	url  string

	mu      sync.Mutex
	scripts []string
}

func (f *fakeFrame) IsMain() bool { return f.main }
func (f *fakeFrame) URL() string  { return f.url }
func (f *fakeFrame) ExecuteJavaScript(code, _ string, _ int) {
	f.mu.Lock()
	f.scripts = append(f.scripts, code)
	f.mu.Unlock()
}

type fakeBrowser struct {
	host  *fakeHost
	frame *fakeFrame
}

func newFakeBrowser(url string) *fakeBrowser {
	return &fakeBrowser{host: &fakeHost{}, frame: &fakeFrame{main: true, url: url}}
}

func (b *fakeBrowser) ID() int                  { return 1 }
func (b *fakeBrowser) Host() browser.Host       { return b.host }
func (b *fakeBrowser) MainFrame() browser.Frame { return b.frame }

// load delivers a main-frame load start and end through c.
func (b *fakeBrowser) load(c browser.Client) {
	lh := c.LoadHandler()
	lh.OnLoadStart(b, b.frame, browser.TransitionExplicit)
	lh.OnLoadEnd(b, b.frame, 200)
}

// paint delivers a full frame filled with v through c.
func (b *fakeBrowser) paint(c browser.Client, w, h int, v byte) {
	buf := make([]byte, w*h*4)
	for i := range buf {
		buf[i] = v
	}
	c.RenderHandler().OnPaint(b, browser.PaintView, nil, buf, w, h)
}

// recordingObserver counts frame and pump notifications.
type recordingObserver struct {
	painted  atomic.Int64
	rejected atomic.Int64
	pulled   atomic.Int64
	stepped  atomic.Int64
	leases   atomic.Int64
}

func (o *recordingObserver) FramePainted(string)          { o.painted.Add(1) }
func (o *recordingObserver) PaintRejected(string, string) { o.rejected.Add(1) }
func (o *recordingObserver) FramePulled(string)           { o.pulled.Add(1) }
func (o *recordingObserver) PumpStepped()                 { o.stepped.Add(1) }
func (o *recordingObserver) PumpLeases(active int)        { o.leases.Store(int64(active)) }

// forgettingObserver also records Forget calls, like metrics.Exporter.
type forgettingObserver struct {
	recordingObserver
	mu        sync.Mutex
	forgotten []string
}

func (o *forgettingObserver) Forget(surface string) {
	o.mu.Lock()
	o.forgotten = append(o.forgotten, surface)
	o.mu.Unlock()
}

func (o *forgettingObserver) Forgotten() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.forgotten...)
}
