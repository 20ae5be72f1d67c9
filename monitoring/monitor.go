// Package monitoring serves a running simulation over HTTP so that users can
// pause it, inspect its components, and switch generators on and off.
package monitoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/ndnapps/ndnapps/monitoring/web"
	"github.com/ndnapps/ndnapps/sim"
	"github.com/pkg/browser"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"
)

// A Generator is a traffic generator that the monitor can inspect and switch
// on and off.
type Generator interface {
	sim.Named
	IsStarted() bool
	IsActive() bool
	IsDone() bool
	NumSent() uint64
	SetActive(active bool)
}

// Monitor can turn a simulation into a server and allows external monitoring
// controlling of the simulation.
type Monitor struct {
	engine     sim.Engine
	components []sim.Component
	generators []Generator
	portNumber int
	addr       string

	pausedLock sync.Mutex
	paused     bool

	progressBarsLock sync.Mutex
	progressBars     []*ProgressBar
}

// NewMonitor creates a new Monitor
func NewMonitor() *Monitor {
	return &Monitor{}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber != 0 && portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// RegisterEngine registers the engine that is used in the simulation.
func (m *Monitor) RegisterEngine(e sim.Engine) {
	m.engine = e
}

// RegisterComponent register a component to be monitored. Components that
// are generators can also be switched on and off.
func (m *Monitor) RegisterComponent(c sim.Component) {
	m.components = append(m.components, c)

	if g, ok := c.(Generator); ok {
		m.generators = append(m.generators, g)
	}
}

// CreateProgressBar creates a new progress bar.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := &ProgressBar{
		ID:        sim.GetIDGenerator().Generate(),
		Name:      name,
		StartTime: time.Now(),
		Total:     total,
	}

	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	m.progressBars = append(m.progressBars, bar)

	return bar
}

// CompleteProgressBar removes a bar to be shown on the webpage.
func (m *Monitor) CompleteProgressBar(pb *ProgressBar) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	newBars := make([]*ProgressBar, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		if b != pb {
			newBars = append(newBars, b)
		}
	}

	m.progressBars = newBars
}

// NumProgressBars returns the number of bars that are not completed.
func (m *Monitor) NumProgressBars() int {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	return len(m.progressBars)
}

// Addr returns the address that the server listens on. It is empty before
// the server starts.
func (m *Monitor) Addr() string {
	return m.addr
}

func (m *Monitor) newRouter() *mux.Router {
	r := mux.NewRouter()

	fs := web.GetAssets()
	fServer := http.FileServer(fs)
	r.HandleFunc("/api/pause", m.pauseEngine)
	r.HandleFunc("/api/continue", m.continueEngine)
	r.HandleFunc("/api/now", m.now)
	r.HandleFunc("/api/run", m.run)
	r.HandleFunc("/api/tick/{name}", m.tick)
	r.HandleFunc("/api/list_components", m.listComponents)
	r.HandleFunc("/api/component/{name}", m.listComponentDetails)
	r.HandleFunc("/api/field/{json}", m.listFieldValue)
	r.HandleFunc("/api/generators", m.listGenerators)
	r.HandleFunc("/api/generator/{name}", m.generatorStatus).
		Methods(http.MethodGet)
	r.HandleFunc("/api/generator/{name}/active/{value}", m.setGeneratorActive).
		Methods(http.MethodPost, http.MethodPut)
	r.HandleFunc("/api/progress", m.listProgressBars)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)
	r.PathPrefix("/").Handler(fServer)

	return r
}

// StartServer starts the monitor as a web server with a custom port if wanted.
func (m *Monitor) StartServer() {
	r := m.newRouter()

	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	if err != nil {
		log.Panic(err)
	}

	m.addr = fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)

	fmt.Fprintf(os.Stderr, "Monitoring simulation with %s\n", m.addr)

	go func() {
		if err := http.Serve(listener, r); err != nil {
			log.Panic(err)
		}
	}()
}

// OpenBrowser opens the monitoring page in the default browser.
func (m *Monitor) OpenBrowser() error {
	if m.addr == "" {
		return fmt.Errorf("monitoring server is not started")
	}

	return browser.OpenURL(m.addr)
}

func (m *Monitor) pauseEngine(w http.ResponseWriter, _ *http.Request) {
	m.pausedLock.Lock()
	defer m.pausedLock.Unlock()

	if !m.paused {
		m.engine.Pause()
		m.paused = true
	}

	w.WriteHeader(http.StatusOK)
}

func (m *Monitor) continueEngine(w http.ResponseWriter, _ *http.Request) {
	m.pausedLock.Lock()
	defer m.pausedLock.Unlock()

	if m.paused {
		m.engine.Continue()
		m.paused = false
	}

	w.WriteHeader(http.StatusOK)
}

// withEnginePaused runs f while no event is being handled.
func (m *Monitor) withEnginePaused(f func()) {
	m.pausedLock.Lock()
	defer m.pausedLock.Unlock()

	if !m.paused {
		m.engine.Pause()
		defer m.engine.Continue()
	}

	f()
}

func (m *Monitor) now(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, "{\"now\":%.10f}", m.engine.CurrentTime())
}

func (m *Monitor) run(w http.ResponseWriter, _ *http.Request) {
	go func() {
		if err := m.engine.Run(); err != nil {
			log.Printf("monitor: run failed: %v", err)
		}
	}()

	w.WriteHeader(http.StatusAccepted)
}

func (m *Monitor) listComponents(w http.ResponseWriter, _ *http.Request) {
	names := make([]string, 0, len(m.components))
	for _, c := range m.components {
		names = append(names, c.Name())
	}

	writeJSON(w, names)
}

type tickingComponent interface {
	TickLater()
}

func (m *Monitor) tick(w http.ResponseWriter, r *http.Request) {
	comp := m.findComponentOr404(w, mux.Vars(r)["name"])
	if comp == nil {
		return
	}

	ticking, ok := comp.(tickingComponent)
	if !ok {
		httpError(w, http.StatusMethodNotAllowed,
			fmt.Errorf("%s does not tick", comp.Name()))
		return
	}

	m.withEnginePaused(ticking.TickLater)
	w.WriteHeader(http.StatusOK)
}

func (m *Monitor) listComponentDetails(w http.ResponseWriter, r *http.Request) {
	component := m.findComponentOr404(w, mux.Vars(r)["name"])
	if component == nil {
		return
	}

	m.serialize(w, component, nil)
}

type fieldReq struct {
	CompName  string `json:"comp_name,omitempty"`
	FieldName string `json:"field_name,omitempty"`
}

func (m *Monitor) listFieldValue(w http.ResponseWriter, r *http.Request) {
	req := fieldReq{}

	err := json.Unmarshal([]byte(mux.Vars(r)["json"]), &req)
	if err != nil {
		httpError(w, http.StatusBadRequest, err)
		return
	}

	component := m.findComponentOr404(w, req.CompName)
	if component == nil {
		return
	}

	m.serialize(w, component, strings.Split(req.FieldName, "."))
}

// serialize writes a component, or one of its fields if path is given, one
// level deep.
func (m *Monitor) serialize(w http.ResponseWriter, root any, path []string) {
	serializer := goseth.NewSerializer()
	serializer.SetRoot(root)
	serializer.SetMaxDepth(1)

	if path != nil {
		if err := serializer.SetEntryPoint(path); err != nil {
			httpError(w, http.StatusBadRequest, err)
			return
		}
	}

	buf := new(bytes.Buffer)
	var err error
	m.withEnginePaused(func() { err = serializer.Serialize(buf) })
	if err != nil {
		httpError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = buf.WriteTo(w)
}

type generatorRsp struct {
	Name    string `json:"name"`
	Started bool   `json:"started"`
	Active  bool   `json:"active"`
	Done    bool   `json:"done"`
	NumSent uint64 `json:"num_sent"`
}

func statusOf(g Generator) generatorRsp {
	return generatorRsp{
		Name:    g.Name(),
		Started: g.IsStarted(),
		Active:  g.IsActive(),
		Done:    g.IsDone(),
		NumSent: g.NumSent(),
	}
}

func (m *Monitor) listGenerators(w http.ResponseWriter, _ *http.Request) {
	rsp := make([]generatorRsp, 0, len(m.generators))

	m.withEnginePaused(func() {
		for _, g := range m.generators {
			rsp = append(rsp, statusOf(g))
		}
	})

	writeJSON(w, rsp)
}

func (m *Monitor) generatorStatus(w http.ResponseWriter, r *http.Request) {
	g := m.findGeneratorOr404(w, mux.Vars(r)["name"])
	if g == nil {
		return
	}

	var rsp generatorRsp
	m.withEnginePaused(func() { rsp = statusOf(g) })

	writeJSON(w, rsp)
}

func (m *Monitor) setGeneratorActive(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	g := m.findGeneratorOr404(w, vars["name"])
	if g == nil {
		return
	}

	active, err := strconv.ParseBool(vars["value"])
	if err != nil {
		httpError(w, http.StatusBadRequest, err)
		return
	}

	var rsp generatorRsp
	m.withEnginePaused(func() {
		g.SetActive(active)
		rsp = statusOf(g)
	})

	writeJSON(w, rsp)
}

func (m *Monitor) findComponentOr404(
	w http.ResponseWriter,
	name string,
) sim.Component {
	for _, c := range m.components {
		if c.Name() == name {
			return c
		}
	}

	httpError(w, http.StatusNotFound, fmt.Errorf("component %q not found", name))

	return nil
}

func (m *Monitor) findGeneratorOr404(
	w http.ResponseWriter,
	name string,
) Generator {
	for _, g := range m.generators {
		if g.Name() == name {
			return g
		}
	}

	httpError(w, http.StatusNotFound, fmt.Errorf("generator %q not found", name))

	return nil
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	writeJSON(w, m.progressBars)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		httpError(w, http.StatusInternalServerError, err)
		return
	}

	cpuPercent, err := proc.CPUPercent()
	if err != nil {
		httpError(w, http.StatusInternalServerError, err)
		return
	}

	mem, err := proc.MemoryInfo()
	if err != nil {
		httpError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: mem.RSS,
	})
}

// collectProfile samples the CPU for one second of wall time.
func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := new(bytes.Buffer)

	if err := pprof.StartCPUProfile(buf); err != nil {
		httpError(w, http.StatusConflict, err)
		return
	}
	time.Sleep(time.Second)
	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	if err != nil {
		httpError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, prof)
}

func writeJSON(w http.ResponseWriter, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		httpError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func httpError(w http.ResponseWriter, code int, err error) {
	http.Error(w, err.Error(), code)
}
