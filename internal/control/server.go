package control

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"log/slog"

	"arena/internal/daemon"
	"arena/internal/events"
	"arena/internal/logging"
	"arena/internal/tools"
)

// Server exposes daemon control via JSON-RPC over a Unix domain socket.
type Server struct {
	path      string
	logger    *slog.Logger
	listener  net.Listener
	rpcServer *rpc.Server

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewServer configures the control server at the given socket path.
func NewServer(ctx context.Context, path string, d *daemon.Daemon, logger *slog.Logger) (*Server, error) {
	if d == nil {
		return nil, errors.New("control server requires daemon")
	}
	logger = logging.WithComponent(logger, "control")

	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("remove existing socket: %w", err)
	}
	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen on socket: %w", err)
	}

	serverCtx, cancel := context.WithCancel(ctx)
	rpcServer := rpc.NewServer()
	svc := &service{daemon: d, logger: logger, ctx: serverCtx}
	if err := rpcServer.RegisterName(ServiceName, svc); err != nil {
		cancel()
		listener.Close()
		return nil, fmt.Errorf("register rpc service: %w", err)
	}

	return &Server{
		path:      path,
		logger:    logger,
		listener:  listener,
		rpcServer: rpcServer,
		ctx:       serverCtx,
		cancel:    cancel,
	}, nil
}

// Serve accepts RPC connections until the context is canceled.
func (s *Server) Serve() {
	s.logger.Debug("control server listening", logging.String("socket", s.path))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := s.listener.Accept()
			if err != nil {
				select {
				case <-s.ctx.Done():
					return
				default:
				}
				s.logger.Warn("accept failed", logging.Error(err))
				continue
			}
			s.wg.Add(1)
			go func(c net.Conn) {
				defer s.wg.Done()
				s.rpcServer.ServeCodec(jsonrpc.NewServerCodec(c))
			}(conn)
		}
	}()
}

// Close stops the server and removes the socket file.
func (s *Server) Close() {
	s.cancel()
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.wg.Wait()
	if err := os.RemoveAll(s.path); err != nil {
		s.logger.Warn("failed to remove socket",
			logging.String("socket", s.path),
			logging.Error(err),
		)
	}
}

type service struct {
	daemon *daemon.Daemon
	logger *slog.Logger
	ctx    context.Context
}

func (s *service) Ping(_ PingRequest, resp *PingResponse) error {
	status := s.daemon.Status()
	resp.PID = status.PID
	resp.SessionID = status.SessionID
	return nil
}

func (s *service) Status(_ StatusRequest, resp *StatusResponse) error {
	status := s.daemon.Status()
	resp.PID = status.PID
	resp.SessionID = status.SessionID
	resp.Started = status.Started
	resp.Connected = status.Connected
	resp.Recording = status.Recording
	resp.RuntimeURL = status.RuntimeURL
	resp.StorePath = status.StorePath
	resp.LockPath = status.LockPath
	resp.QueueDepth = status.QueueDepth
	resp.InFlight = status.InFlight
	resp.SimRunning = status.Sim.Running
	resp.Tick = status.Sim.Tick
	resp.Seed = status.Sim.Seed
	resp.TickRate = status.Sim.TickRate
	resp.Agents = status.Sim.Agents
	resp.Tools = status.Sim.Tools
	return nil
}

func (s *service) SimStart(_ SimStartRequest, resp *SimStartResponse) error {
	if err := s.daemon.StartSim(s.ctx); err != nil {
		resp.Started = false
		resp.Message = err.Error()
		return nil
	}
	resp.Started = true
	resp.Message = "simulation started"
	return nil
}

func (s *service) SimStop(_ SimStopRequest, resp *SimStopResponse) error {
	if err := s.daemon.StopSim(); err != nil {
		resp.Stopped = false
		resp.Message = err.Error()
		return nil
	}
	resp.Stopped = true
	resp.Message = "simulation stopped"
	return nil
}

func (s *service) SimStep(req SimStepRequest, resp *SimStepResponse) error {
	count := req.Count
	if count <= 0 {
		count = 1
	}
	tick, err := s.daemon.StepSim(count)
	if err != nil {
		return err
	}
	resp.Tick = tick
	return nil
}

func (s *service) SimReset(_ SimResetRequest, resp *SimResetResponse) error {
	if err := s.daemon.ResetSim(); err != nil {
		return err
	}
	resp.Tick = 0
	return nil
}

func (s *service) AgentAdd(req AgentAddRequest, _ *AgentAddResponse) error {
	return s.daemon.AddAgent(req.ID)
}

func (s *service) AgentRemove(req AgentRemoveRequest, resp *AgentRemoveResponse) error {
	resp.Removed = s.daemon.RemoveAgent(req.ID)
	return nil
}

func (s *service) AgentList(_ AgentListRequest, resp *AgentListResponse) error {
	for _, summary := range s.daemon.ListAgents() {
		resp.Agents = append(resp.Agents, AgentInfo{
			ID:             summary.ID,
			MemoryEntries:  summary.MemoryEntries,
			Actions:        summary.Actions,
			PendingActions: summary.PendingActions,
		})
	}
	return nil
}

func (s *service) ToolRegister(req ToolRegisterRequest, _ *ToolRegisterResponse) error {
	return s.daemon.RegisterTool(schemaFromInfo(req.Tool))
}

func (s *service) ToolUnregister(req ToolUnregisterRequest, resp *ToolUnregisterResponse) error {
	resp.Removed = s.daemon.UnregisterTool(req.Name)
	return nil
}

func (s *service) ToolList(_ ToolListRequest, resp *ToolListResponse) error {
	for _, schema := range s.daemon.ListTools() {
		resp.Tools = append(resp.Tools, infoFromSchema(schema))
	}
	return nil
}

func (s *service) ToolCall(req ToolCallRequest, resp *ToolCallResponse) error {
	if strings.TrimSpace(req.Tool) == "" {
		return errors.New("tool call requires a tool name")
	}
	ack, err := s.daemon.CallTool(req.AgentID, req.Tool, req.Params)
	if err != nil {
		return err
	}
	resp.CorrelationID = ack.CorrelationID
	resp.Position = ack.Position
	return nil
}

func (s *service) EventsRecent(req EventsRecentRequest, resp *EventsRecentResponse) error {
	recorded, err := s.daemon.RecentEvents(s.ctx, req.Limit)
	if err != nil {
		return err
	}
	for _, evt := range recorded {
		resp.Events = append(resp.Events, recordFromEvent(evt))
	}
	return nil
}

func (s *service) EventsStats(_ EventsStatsRequest, resp *EventsStatsResponse) error {
	stats, err := s.daemon.EventStats(s.ctx)
	if err != nil {
		return err
	}
	resp.Total = stats.Total
	resp.FirstTick = stats.FirstTick
	resp.LastTick = stats.LastTick
	resp.ByType = stats.ByType
	return nil
}

func (s *service) EventsExport(req EventsExportRequest, resp *EventsExportResponse) error {
	if strings.TrimSpace(req.Path) == "" {
		return errors.New("export requires a destination path")
	}
	exported, err := s.daemon.ExportEvents(s.ctx, req.Path)
	if err != nil {
		return err
	}
	resp.Exported = exported
	resp.Path = req.Path
	return nil
}

func (s *service) EventsImport(req EventsImportRequest, resp *EventsImportResponse) error {
	if strings.TrimSpace(req.Path) == "" {
		return errors.New("import requires a source path")
	}
	imported, err := s.daemon.ImportEvents(s.ctx, req.Path)
	if err != nil {
		return err
	}
	resp.Imported = imported
	resp.Path = req.Path
	return nil
}

func (s *service) EventsRange(req EventsRangeRequest, resp *EventsRangeResponse) error {
	if req.ToTick < req.FromTick {
		return errors.New("tick range is inverted")
	}
	recorded, err := s.daemon.EventsInRange(s.ctx, req.FromTick, req.ToTick)
	if err != nil {
		return err
	}
	for _, evt := range recorded {
		resp.Events = append(resp.Events, recordFromEvent(evt))
	}
	return nil
}

func (s *service) EventsClear(_ EventsClearRequest, resp *EventsClearResponse) error {
	removed, err := s.daemon.ClearEvents(s.ctx)
	if err != nil {
		return err
	}
	resp.Removed = removed
	return nil
}

func (s *service) RecordSet(req RecordSetRequest, resp *RecordSetResponse) error {
	s.daemon.SetRecording(req.Enabled)
	resp.Recording = s.daemon.Bus().Recording()
	return nil
}

func schemaFromInfo(info ToolInfo) tools.Schema {
	schema := tools.Schema{
		Name:        info.Name,
		Description: info.Description,
	}
	if len(info.Params) > 0 {
		schema.Params = make(map[string]tools.Param, len(info.Params))
		for _, param := range info.Params {
			schema.Params[param.Name] = tools.Param{
				Type:        param.Type,
				Description: param.Description,
				Required:    param.Required,
			}
		}
	}
	return schema
}

func infoFromSchema(schema tools.Schema) ToolInfo {
	info := ToolInfo{
		Name:        schema.Name,
		DisplayName: schema.DisplayName(),
		Description: schema.Description,
	}
	for name, param := range schema.Params {
		info.Params = append(info.Params, ToolParam{
			Name:        name,
			Type:        param.Type,
			Description: param.Description,
			Required:    param.Required,
		})
	}
	sortToolParams(info.Params)
	return info
}

func sortToolParams(params []ToolParam) {
	sort.Slice(params, func(i, j int) bool { return params[i].Name < params[j].Name })
}

func recordFromEvent(evt events.Event) EventRecord {
	return EventRecord{
		ID:        evt.ID,
		SessionID: evt.SessionID,
		Tick:      evt.Tick,
		Type:      evt.Type,
		AgentID:   evt.AgentID,
		Payload:   evt.Payload,
		CreatedAt: evt.CreatedAt.UTC().Format(time.RFC3339),
	}
}
