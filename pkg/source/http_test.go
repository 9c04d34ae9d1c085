package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/phoenix4012/souchier/pkg/catalog"
)

const registryCSV = "Type,Nom_Bacterie,Lieu_Souchier,Repiquage_Necessaire\n" +
	"GRAM+,Escherichia coli,D-1,Oui\n" +
	"Levure,Candida albicans,F-2,Oui\n"

func TestHTTPSource_Load(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		_, _ = w.Write([]byte(registryCSV))
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL+"/bacteries_souchier.csv", 5*time.Second)
	cat, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, cat, 2)
	require.Equal(t, "Candida albicans", cat[1].NomBacterie)
}

func TestHTTPSource_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantErr string
	}{
		{
			name: "not found",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.NotFound(w, r)
			},
			wantErr: "unexpected status 404",
		},
		{
			name: "missing column",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("Type,Nom_Bacterie\nGRAM+,Escherichia coli\n"))
			},
			wantErr: "missing required column",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			loader := NewLoader(NewHTTPSource(srv.URL, time.Second), nil)
			_, err := loader.Load(context.Background())
			require.Error(t, err)
			require.True(t, IsLoadError(err))
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestHTTPSource_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewLoader(NewHTTPSource(url, time.Second), nil).Load(context.Background())
	require.True(t, IsLoadError(err))
	require.Contains(t, err.Error(), "failed to fetch")
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "souchier.csv")
	require.NoError(t, os.WriteFile(path, []byte(registryCSV), 0o644))

	cat, err := (&FileSource{Path: path}).Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, catalog.Record{Type: "GRAM+", NomBacterie: "Escherichia coli", LieuSouchier: "D-1", RepiquageNecessaire: "Oui"}, cat[0])

	_, err = (&FileSource{Path: filepath.Join(t.TempDir(), "absent.csv")}).Load(context.Background())
	require.ErrorIs(t, err, os.ErrNotExist)
}
