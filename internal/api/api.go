// Package api is the HTTP control API of the bar.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/ItsNotGoodName/x-tagbar/internal/bar"
	"github.com/ItsNotGoodName/x-tagbar/internal/build"
	"github.com/ItsNotGoodName/x-tagbar/internal/core"
	"github.com/ItsNotGoodName/x-tagbar/internal/tags"
	"github.com/ItsNotGoodName/x-tagbar/pkg/chiext"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/danielgtaylor/huma/v2/sse"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// Sender delivers messages to the bar's dispatch loop.
type Sender interface {
	Send(ctx context.Context, msg bar.Msg) error
}

// Snapshots is the source of bar snapshots.
type Snapshots interface {
	Latest() (bar.Snapshot, bool)
	Subscribe(ctx context.Context) (<-chan bar.Snapshot, func())
}

// State is the JSON form of a bar snapshot.
type State struct {
	Session    string   `json:"session" doc:"Id of this API server instance"`
	Status     string   `json:"status" enum:"unconfigured,configured,closed"`
	Configured bool     `json:"configured"`
	Visible    bool     `json:"visible"`
	Focused    uint32   `json:"focused" doc:"Focused tag mask"`
	Primary    int      `json:"primary" doc:"Index of the lowest focused tag, -1 when none"`
	Views      []uint32 `json:"views" doc:"Tag mask of every view"`
	Occupied   uint32   `json:"occupied"`
	Urgent     uint32   `json:"urgent"`
	Width      int      `json:"width"`
	Height     int      `json:"height"`
}

func NewState(session string, s bar.Snapshot) State {
	views := make([]uint32, 0, len(s.Views))
	for _, v := range s.Views {
		views = append(views, uint32(v))
	}
	return State{
		Session:    session,
		Status:     s.Status.String(),
		Configured: s.Configured(),
		Visible:    s.Visible,
		Focused:    uint32(s.Focused),
		Primary:    s.Primary,
		Views:      views,
		Occupied:   uint32(s.Occupied),
		Urgent:     uint32(s.Urgent),
		Width:      s.Width,
		Height:     s.Height,
	}
}

type StateOutput struct {
	Body State
}

type BuildOutput struct {
	Body build.Build
}

type TagsInput struct {
	Body struct {
		Output  string    `json:"output,omitempty" doc:"Output the tags belong to"`
		Focused *uint32   `json:"focused,omitempty" doc:"Focused tag mask"`
		Views   *[]uint32 `json:"views,omitempty" doc:"Tag mask of every view"`
		Urgent  *uint32   `json:"urgent,omitempty" doc:"Mask of tags holding an urgent view"`
	}
}

type VisibilityInput struct {
	Body struct {
		Visible bool `json:"visible"`
	}
}

// DefaultOutput is used when a request names no output.
const DefaultOutput = "api"

type Server struct {
	session   string
	sender    Sender
	snapshots Snapshots
	log       *slog.Logger
}

func New(sender Sender, snapshots Snapshots) *Server {
	return &Server{
		session:   uuid.NewString(),
		sender:    sender,
		snapshots: snapshots,
		log:       slog.With("package", "api"),
	}
}

func (s *Server) Session() string {
	return s.session
}

// Handler returns the router serving every operation.
func (s *Server) Handler(info build.Build) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chiext.Logger())
	r.Use(middleware.Recoverer)

	api := humachi.New(r, huma.DefaultConfig("x-tagbar", info.Version))
	s.register(api, info)

	return r
}

func (s *Server) register(api huma.API, info build.Build) {
	huma.Register(api, huma.Operation{
		OperationID: "get-build",
		Method:      http.MethodGet,
		Path:        "/v1/build",
		Summary:     "Get build information",
	}, func(ctx context.Context, input *struct{}) (*BuildOutput, error) {
		return &BuildOutput{Body: info}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-state",
		Method:      http.MethodGet,
		Path:        "/v1/state",
		Summary:     "Get bar state",
	}, s.getState)

	huma.Register(api, huma.Operation{
		OperationID:   "put-tags",
		Method:        http.MethodPut,
		Path:          "/v1/tags",
		Summary:       "Push tag state",
		DefaultStatus: http.StatusNoContent,
	}, s.putTags)

	huma.Register(api, huma.Operation{
		OperationID:   "post-visibility",
		Method:        http.MethodPost,
		Path:          "/v1/visibility",
		Summary:       "Show or hide the bar",
		DefaultStatus: http.StatusNoContent,
	}, s.postVisibility)

	sse.Register(api, huma.Operation{
		OperationID: "get-events",
		Method:      http.MethodGet,
		Path:        "/v1/events",
		Summary:     "Stream bar state",
	}, map[string]any{
		"state": State{},
	}, s.getEvents)
}

func (s *Server) getState(ctx context.Context, input *struct{}) (*StateOutput, error) {
	snapshot, ok := s.snapshots.Latest()
	if !ok {
		snapshot = bar.Snapshot{Primary: -1}
	}
	return &StateOutput{Body: NewState(s.session, snapshot)}, nil
}

func (s *Server) putTags(ctx context.Context, input *TagsInput) (*struct{}, error) {
	body := input.Body
	if body.Focused == nil && body.Views == nil && body.Urgent == nil {
		return nil, huma.Error400BadRequest("one of focused, views or urgent is required")
	}

	output := body.Output
	if output == "" {
		output = DefaultOutput
	}

	msg := bar.TagUpdate{Output: output}
	if body.Views != nil {
		views := make([]tags.Mask, 0, len(*body.Views))
		for _, v := range *body.Views {
			views = append(views, tags.Mask(v))
		}
		msg.Views = tags.EncodeViewTags(views)
	}
	if body.Urgent != nil {
		urgent := tags.Mask(*body.Urgent)
		msg.Urgent = &urgent
	}
	if body.Focused != nil {
		focused := tags.Mask(*body.Focused)
		msg.Focused = &focused
	}

	if err := s.send(ctx, msg); err != nil {
		return nil, err
	}
	return nil, nil
}

func (s *Server) postVisibility(ctx context.Context, input *VisibilityInput) (*struct{}, error) {
	var msg bar.Msg = bar.Hide{}
	if input.Body.Visible {
		msg = bar.Show{}
	}
	return nil, s.send(ctx, msg)
}

func (s *Server) send(ctx context.Context, msg bar.Msg) error {
	if err := s.sender.Send(ctx, msg); err != nil {
		if errors.Is(err, bar.ErrClosed) {
			return huma.Error503ServiceUnavailable("bar is closed", err)
		}
		return err
	}
	return nil
}

func (s *Server) getEvents(ctx context.Context, input *struct{}, send sse.Sender) {
	snapshotC, unsubscribe := s.snapshots.Subscribe(ctx)
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case snapshot := <-snapshotC:
			if err := send.Data(NewState(s.session, snapshot)); err != nil {
				s.log.Debug("Stopping event stream", "error", err)
				return
			}
		}
	}
}

// Serve listens on addr until ctx is canceled.
func (s *Server) Serve(ctx context.Context, addr string, info build.Build) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	server := &http.Server{
		Handler:           s.Handler(info),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errC := make(chan error, 1)
	go func() { errC <- server.Serve(ln) }()

	host, port := core.SplitAddress(ln.Addr().String())
	s.log.Info("Listening", "host", host, "port", port)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	case err := <-errC:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
