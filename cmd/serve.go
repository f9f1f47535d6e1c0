package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/openroll/songpipe/catalog"
	"github.com/openroll/songpipe/config"
	"github.com/openroll/songpipe/merge"
	"github.com/openroll/songpipe/model"
	"github.com/openroll/songpipe/store"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
)

var (
	cfg       *config.Config
	songStore store.Store
	watcher   *catalog.Watcher

	catalogMu  sync.RWMutex
	localSongs []model.SongMetadata
	uploaded   []model.SongMetadata
)

var configPath string

func init() {
	serveCmd.Flags().StringVar(&configPath, "config", "", "path to a yaml config file")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the song API",
	Long:  `Serves the song API consumed by the practice front end.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

// InitServe wires the store and catalog from config without binding a
// listener. Split out so e2e tests can exercise the handlers directly.
func InitServe(c *config.Config) error {
	cfg = c
	var err error
	songStore, err = newStore(c)
	if err != nil {
		return err
	}

	if c.MediaDir != "" {
		songs, err := catalog.Scan(c.MediaDir, nil)
		if err != nil {
			log.Printf("initial scan of %v failed: %v", c.MediaDir, err)
		}
		setLocalSongs(songs)
		watcher = catalog.NewWatcher(c.MediaDir, time.Second, func(songs []model.SongMetadata, err error) {
			if err != nil {
				log.Printf("rescan of %v failed: %v", c.MediaDir, err)
				return
			}
			setLocalSongs(songs)
		})
	}
	return nil
}

func serve() error {
	c, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := InitServe(c); err != nil {
		return err
	}

	handler := cors.Default().Handler(Router())
	log.Printf("listening on :%v", c.Server.Port)
	return http.ListenAndServe(":"+c.Server.Port, handler)
}

func Router() *mux.Router {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/songs", HandleUpload).Methods("POST")
	router.HandleFunc("/songs/{id}", HandleGetSong).Methods("GET")
	router.HandleFunc("/songs/{id}/settings", HandleGetSettings).Methods("GET")
	router.HandleFunc("/songs/{id}/settings", HandleSetSettings).Methods("PUT")
	router.HandleFunc("/catalog", HandleCatalog).Methods("GET")
	router.HandleFunc("/catalog/rescan", HandleRescan).Methods("POST")
	return router
}

func newStore(c *config.Config) (store.Store, error) {
	switch c.Store.Type {
	case "memory":
		return store.NewMemory(), nil
	case "dynamo":
		return store.NewDynamo(c.Store.Endpoint, c.Store.Region, c.Store.Table)
	default:
		return nil, fmt.Errorf("unknown store type %q", c.Store.Type)
	}
}

// HandleUpload parses an uploaded batch of midi files into one Song,
// persists it and returns its metadata. One bad file fails the whole
// batch.
func HandleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "could not parse multipart form: "+err.Error())
		return
	}
	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, "no files uploaded")
		return
	}

	var inputs []merge.Input
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			writeError(w, http.StatusBadRequest, "could not open "+fh.Filename+": "+err.Error())
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			writeError(w, http.StatusBadRequest, "could not read "+fh.Filename+": "+err.Error())
			return
		}
		inputs = append(inputs, merge.Input{Name: fh.Filename, Data: data})
	}

	merged, meta, err := merge.Merge(inputs)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := store.SaveSong(songStore, meta.ID, merged); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	catalogMu.Lock()
	uploaded = append(uploaded, *meta)
	catalogMu.Unlock()

	json.NewEncoder(w).Encode(model.UploadResponse{Metadata: *meta})
}

func HandleGetSong(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	sng, err := store.LoadSong(songStore, id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "no song with id "+id)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	json.NewEncoder(w).Encode(sng)
}

func HandleGetSettings(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	data, err := songStore.Get(store.SettingsKey(id))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "no settings for song "+id)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func HandleSetSettings(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	data, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := songStore.Set(store.SettingsKey(id), data); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func HandleCatalog(w http.ResponseWriter, r *http.Request) {
	catalogMu.RLock()
	songs := make([]model.SongMetadata, 0, len(localSongs)+len(uploaded))
	songs = append(songs, localSongs...)
	songs = append(songs, uploaded...)
	catalogMu.RUnlock()

	json.NewEncoder(w).Encode(model.CatalogResponse{Songs: songs})
}

func HandleRescan(w http.ResponseWriter, r *http.Request) {
	if watcher == nil {
		writeError(w, http.StatusBadRequest, "no media folder configured")
		return
	}
	watcher.Notify()
	w.WriteHeader(http.StatusAccepted)
}

func setLocalSongs(songs []model.SongMetadata) {
	catalogMu.Lock()
	localSongs = songs
	catalogMu.Unlock()
}

func writeError(w http.ResponseWriter, code int, detail string) {
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(model.ErrorResponse{Error: detail})
}
