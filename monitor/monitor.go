package monitor

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"sync"
	"time"

	// Enable profiling
	_ "net/http/pprof"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/AbdelrahmanWaelH/MIPS32-Architecture/internal"
	"github.com/AbdelrahmanWaelH/MIPS32-Architecture/machine"
	"github.com/AbdelrahmanWaelH/MIPS32-Architecture/pipeline"
	"github.com/AbdelrahmanWaelH/MIPS32-Architecture/simulator"
)

const (
	DEFAULT_MEMORY_WINDOW = 64          // Cells listed when no range is given.
	DEFAULT_PROFILE_TIME  = time.Second // CPU profile duration.
)

// Monitor turns a simulation into a server that can be inspected and
// stepped over HTTP. Requests are serialized.
type Monitor struct {
	Verbose     bool
	ProfileTime time.Duration

	lock   sync.Mutex
	sim    *simulator.Simulator
	server *http.Server
}

// New creates a monitor of sim.
func New(sim *simulator.Simulator) *Monitor {
	return &Monitor{
		ProfileTime: DEFAULT_PROFILE_TIME,
		sim:         sim,
	}
}

// Router returns the monitor's request router.
func (m *Monitor) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/state", m.state).Methods(http.MethodGet)
	r.HandleFunc("/api/registers", m.registers).Methods(http.MethodGet)
	r.HandleFunc("/api/memory", m.memory).Methods(http.MethodGet)
	r.HandleFunc("/api/changes", m.changes).Methods(http.MethodGet)
	r.HandleFunc("/api/stats", m.stats).Methods(http.MethodGet)
	r.HandleFunc("/api/step", m.step).Methods(http.MethodPost)
	r.HandleFunc("/api/run", m.run).Methods(http.MethodPost)
	r.HandleFunc("/api/reset", m.reset).Methods(http.MethodPost)
	r.HandleFunc("/api/component/{name}", m.component).Methods(http.MethodGet)
	r.HandleFunc("/api/resource", m.resource).Methods(http.MethodGet)
	r.HandleFunc("/api/profile", m.profile).Methods(http.MethodGet)
	r.PathPrefix("/debug/pprof/").Handler(http.DefaultServeMux)

	return r
}

// StartServer listens on port, or on a free port if port is 0, and serves
// the monitor in the background. It returns the server URL.
func (m *Monitor) StartServer(port int) (url string, err error) {
	listener, err := net.Listen("tcp", ":"+strconv.Itoa(port))
	if err != nil {
		return
	}

	url = fmt.Sprintf("http://localhost:%d", listener.Addr().(*net.TCPAddr).Port)
	fmt.Fprintf(os.Stderr, "Monitoring simulation with %s\n", url)

	m.server = &http.Server{Handler: m.Router()}
	go func() {
		err := m.server.Serve(listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("monitor: %v", err)
		}
	}()

	return
}

// Close stops the server.
func (m *Monitor) Close() (err error) {
	if m.server != nil {
		err = m.server.Close()
		m.server = nil
	}
	return
}

func (m *Monitor) reply(w http.ResponseWriter, rsp any) {
	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(rsp)
	if err != nil && m.Verbose {
		log.Printf("monitor: %v", err)
	}
}

func (m *Monitor) fail(w http.ResponseWriter, status int, err error) {
	if m.Verbose {
		log.Printf("monitor: %d: %v", status, err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorRsp{Error: err.Error()})
}

func queryInt(r *http.Request, name string, defval int) (value int, err error) {
	text := r.URL.Query().Get(name)
	if text == "" {
		value = defval
		return
	}

	value, err = strconv.Atoi(text)
	if err != nil {
		err = ErrQuery{Name: name, Value: text}
	}

	return
}

func faultText(faults []error) (text []string) {
	for _, fault := range faults {
		text = append(text, fault.Error())
	}
	return
}

// snapshot must be called with the lock held.
func (m *Monitor) snapshot() (rsp stateRsp) {
	e := m.sim.Engine
	slots := e.Slots()

	rsp = stateRsp{
		Cycle:        e.Cycle(),
		Pc:           m.sim.State.Pc,
		Done:         e.Done(),
		FlushPending: e.FlushPending(),
	}

	for _, stage := range pipeline.Stages() {
		slot := &slots[stage]
		srsp := stageRsp{
			Stage:       stage.String(),
			Valid:       slot.Valid,
			Pc:          slot.Pc,
			Instruction: slot.String(),
			CyclesSpent: slot.CyclesSpent,
			StallCycles: slot.StallCycles,
		}
		if slot.Valid {
			srsp.LineNo = m.sim.LineNo(slot.Pc)
		}
		rsp.Stages = append(rsp.Stages, srsp)
	}

	for change := range m.sim.State.Changes() {
		rsp.Changes = append(rsp.Changes, change.String())
	}

	return
}

func (m *Monitor) state(w http.ResponseWriter, _ *http.Request) {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.reply(w, m.snapshot())
}

func (m *Monitor) registers(w http.ResponseWriter, _ *http.Request) {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.reply(w, m.sim.State.Registers.Values())
}

func (m *Monitor) memory(w http.ResponseWriter, r *http.Request) {
	from, err := queryInt(r, "from", machine.DATA_BASE)
	if err != nil {
		m.fail(w, http.StatusBadRequest, err)
		return
	}

	to, err := queryInt(r, "to", from+DEFAULT_MEMORY_WINDOW)
	if err != nil {
		m.fail(w, http.StatusBadRequest, err)
		return
	}

	m.lock.Lock()
	defer m.lock.Unlock()

	cells := []cellRsp{}
	for addr, value := range m.sim.State.Memory.Cells(from, to) {
		cells = append(cells, cellRsp{Address: addr, Value: value})
	}

	m.reply(w, cells)
}

func (m *Monitor) changes(w http.ResponseWriter, r *http.Request) {
	kind := r.URL.Query().Get("kind")
	if kind != "" && kind != machine.CHANGE_REGISTER.String() && kind != machine.CHANGE_MEMORY.String() {
		m.fail(w, http.StatusBadRequest, errors.Join(ErrChangeKind, ErrQuery{Name: "kind", Value: kind}))
		return
	}

	m.lock.Lock()
	defer m.lock.Unlock()

	changes := internal.IterSeqFilter(m.sim.State.Changes(), func(change machine.Change) bool {
		return kind == "" || change.Kind.String() == kind
	})

	rsp := []changeRsp{}
	for change := range changes {
		rsp = append(rsp, changeRsp{
			Kind:  change.Kind.String(),
			Index: change.Index,
			Old:   change.Old,
			New:   change.New,
		})
	}

	m.reply(w, rsp)
}

func (m *Monitor) stats(w http.ResponseWriter, _ *http.Request) {
	m.lock.Lock()
	defer m.lock.Unlock()

	st := m.sim.Engine.Stats
	m.reply(w, statsRsp{
		Statistics: st,
		CPI:        st.CPI(),
		Accuracy:   st.Accuracy(),
		Toggles:    m.sim.State.Toggles(),
	})
}

func (m *Monitor) step(w http.ResponseWriter, r *http.Request) {
	cycles, err := queryInt(r, "cycles", 1)
	if err == nil && cycles < 1 {
		err = ErrQuery{Name: "cycles", Value: r.URL.Query().Get("cycles")}
	}
	if err != nil {
		m.fail(w, http.StatusBadRequest, err)
		return
	}

	m.lock.Lock()
	defer m.lock.Unlock()

	var faults []error
	for range cycles {
		done, err := m.sim.Tick()
		if err != nil {
			faults = append(faults, err)
		}
		if done {
			break
		}
	}

	rsp := m.snapshot()
	rsp.Faults = faultText(faults)

	m.reply(w, rsp)
}

func (m *Monitor) run(w http.ResponseWriter, _ *http.Request) {
	m.lock.Lock()
	defer m.lock.Unlock()

	result, err := m.sim.Run()

	rsp := runRsp{
		Cycles:    result.Cycles,
		Stats:     result.Stats,
		Completed: result.Completed,
		Faults:    faultText(result.Faults),
	}
	if err != nil {
		rsp.Error = err.Error()
	}

	m.reply(w, rsp)
}

func (m *Monitor) reset(w http.ResponseWriter, _ *http.Request) {
	m.lock.Lock()
	defer m.lock.Unlock()

	err := m.sim.Reset()
	if err != nil {
		m.fail(w, http.StatusInternalServerError, err)
		return
	}

	m.reply(w, m.snapshot())
}

// components names the parts of the simulation that can be serialized.
func (m *Monitor) components() map[string]any {
	e := m.sim.Engine
	return map[string]any{
		"simulator": m.sim,
		"engine":    e,
		"state":     m.sim.State,
		"hazard":    &e.HazardUnit,
		"predictor": &e.Predictor,
		"stats":     &e.Stats,
		"program":   m.sim.Program,
	}
}

func (m *Monitor) component(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	m.lock.Lock()
	defer m.lock.Unlock()

	root, ok := m.components()[name]
	if !ok {
		m.fail(w, http.StatusNotFound, errors.Join(ErrComponentUnknown, ErrQuery{Name: "component", Value: name}))
		return
	}

	w.Header().Set("Content-Type", "application/json")

	serializer := goseth.NewSerializer()
	serializer.SetRoot(root)
	serializer.SetMaxDepth(1)
	err := serializer.Serialize(w)
	if err != nil && m.Verbose {
		log.Printf("monitor: %v: %v", name, err)
	}
}

func (m *Monitor) resource(w http.ResponseWriter, _ *http.Request) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		m.fail(w, http.StatusInternalServerError, err)
		return
	}

	cpuPercent, err := proc.CPUPercent()
	if err != nil {
		m.fail(w, http.StatusInternalServerError, err)
		return
	}

	memoryInfo, err := proc.MemoryInfo()
	if err != nil {
		m.fail(w, http.StatusInternalServerError, err)
		return
	}

	m.reply(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memoryInfo.RSS,
	})
}

func (m *Monitor) profile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	if err != nil {
		m.fail(w, http.StatusConflict, err)
		return
	}

	time.Sleep(m.ProfileTime)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	if err != nil {
		m.fail(w, http.StatusInternalServerError, err)
		return
	}

	m.reply(w, prof)
}
