package main

import (
	"flag"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	socketio "github.com/zishang520/socket.io/v2/socket"

	"github.com/Bharadwaj710/Collab-Tool/activity"
	"github.com/Bharadwaj710/Collab-Tool/core"
	"github.com/Bharadwaj710/Collab-Tool/handlers/api/documents"
	"github.com/Bharadwaj710/Collab-Tool/handlers/api/users"
	"github.com/Bharadwaj710/Collab-Tool/handlers/websocket"
	"github.com/Bharadwaj710/Collab-Tool/middleware"
	"github.com/Bharadwaj710/Collab-Tool/session"
	"github.com/Bharadwaj710/Collab-Tool/stores"
)

type roomInfo struct {
	ID         string `json:"id"`
	Users      int    `json:"users"`
	LastActive *int64 `json:"lastActive,omitempty"`
}

func setupRouter(documentStore core.DocumentStore, userStore core.UserStore, registry core.ActivityRegistry, hub *session.Hub) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)

	corsOptions := cors.Options{
		AllowOriginFunc: func(r *http.Request, origin string) bool {
			if origin == "" {
				return false
			}
			parsed, err := url.Parse(origin)
			if err != nil {
				return false
			}
			switch parsed.Scheme {
			case "http", "https":
				switch parsed.Hostname() {
				case "localhost", "127.0.0.1", "[::1]":
					return true
				}
			}
			return false
		},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	r.Use(cors.Handler(corsOptions))

	r.Route("/api/sessions", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthJWT)
			r.Post("/", documents.HandleCreate(documentStore))
		})
		r.Get("/{id}", documents.HandleGet(documentStore))
	})

	r.Route("/api/users", func(r chi.Router) {
		r.Get("/{id}", users.HandleGet(userStore))
	})

	r.Get("/api/rooms", func(w http.ResponseWriter, r *http.Request) {
		roomMap := make(map[string]*roomInfo)
		for id, count := range hub.ActiveRooms() {
			roomMap[id] = &roomInfo{ID: id, Users: count}
		}

		if stored, err := registry.List(r.Context()); err != nil {
			logrus.WithError(err).Warn("Failed to list rooms from activity registry")
		} else {
			for _, room := range stored {
				entry, exists := roomMap[room.ID]
				if !exists {
					entry = &roomInfo{ID: room.ID}
					roomMap[room.ID] = entry
				}
				if room.LastActive > 0 {
					lastActive := room.LastActive
					entry.LastActive = &lastActive
				}
			}
		}

		roomList := make([]roomInfo, 0, len(roomMap))
		for _, entry := range roomMap {
			roomList = append(roomList, *entry)
		}
		sort.Slice(roomList, func(i, j int) bool {
			if roomList[i].Users == roomList[j].Users {
				li, lj := int64(0), int64(0)
				if roomList[i].LastActive != nil {
					li = *roomList[i].LastActive
				}
				if roomList[j].LastActive != nil {
					lj = *roomList[j].LastActive
				}
				if li == lj {
					return roomList[i].ID < roomList[j].ID
				}
				return li > lj
			}
			return roomList[i].Users > roomList[j].Users
		})

		render.JSON(w, r, roomList)
	})

	return r
}

func waitForShutdown(ioo *socketio.Server) {
	exit := make(chan struct{})
	signalC := make(chan os.Signal, 1)

	signal.Notify(signalC, os.Interrupt, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		for s := range signalC {
			switch s {
			case os.Interrupt, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT:
				close(exit)
				return
			}
		}
	}()

	<-exit
	logrus.Info("Shutting down")
	ioo.Close(nil)
	os.Exit(0)
}

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found")
	}

	logLevel := flag.String("loglevel", "info", "Set the logging level: debug, info, warn, error, fatal, panic")
	listenAddr := flag.String("listen", ":5000", "Set the server listen address")
	flag.Parse()

	level, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %v", err)
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	documentStore, userStore := stores.GetStore()
	registry := activity.GetRegistry()

	ioo, hub := websocket.SetupSocketIO(func(d session.Dispatcher) *session.Hub {
		return session.New(documentStore, userStore, registry, d)
	})

	r := setupRouter(documentStore, userStore, registry, hub)
	r.Handle("/socket.io/", ioo.ServeHandler(nil))

	logrus.WithField("addr", *listenAddr).Info("starting server")
	go func() {
		if err := http.ListenAndServe(*listenAddr, r); err != nil {
			logrus.WithField("event", "start server").Fatal(err)
		}
	}()

	logrus.Debug("Server is running in the background")
	waitForShutdown(ioo)
}
