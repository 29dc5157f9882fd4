package cli

import (
	"bufio"
	"context"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/essaydesk/internal/client/client"
	"github.com/dmitrijs2005/essaydesk/internal/client/config"
	"github.com/dmitrijs2005/essaydesk/internal/client/utils"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

const (
	roleStudent = "student"
	roleTeacher = "teacher"
)

type session struct {
	userID   string
	role     string
	fullName string
}

type App struct {
	config   *config.Config
	client   client.Client
	reader   *bufio.Reader
	out      io.Writer
	download func(ctx context.Context, url string) ([]byte, error)

	mu      sync.RWMutex
	session *session
	Mode    Mode
}

func NewApp(c *config.Config) (*App, error) {

	apiClient, err := client.NewEssayDeskClientService(c.ServerEndpointAddr)
	if err != nil {
		return nil, err
	}

	return &App{
		config:   c,
		client:   apiClient,
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
		download: utils.DownloadPresignedURL,
	}, nil
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Mode != mode {
		a.Mode = mode
		log.Printf("Switched to %s mode\n", mode)
	}
}

func (a *App) mode() Mode {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.Mode
}

func (a *App) setSession(s *session) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.session = s
}

func (a *App) currentSession() *session {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.session
}

func (a *App) isLoggedIn() bool {
	return a.currentSession() != nil
}

func (a *App) isTeacher() bool {
	s := a.currentSession()
	return s != nil && s.role == roleTeacher
}

func (a *App) Run(ctx context.Context) {
	defer a.client.Close()
	a.Root(ctx)
}

// callCtx bounds a single server call by the configured request timeout.
func (a *App) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.config == nil || a.config.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.config.RequestTimeout)
}

func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := a.client.Ping(ctx); err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}
