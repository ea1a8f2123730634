package server_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/freight-audit/internal/config"
	"github.com/rezonia/freight-audit/internal/logger"
	"github.com/rezonia/freight-audit/internal/model"
	"github.com/rezonia/freight-audit/internal/server"
	"github.com/rezonia/freight-audit/internal/store"
)

const (
	rateCSV = `destino,percurso,volume_min,volume_max,valor_unitario,frete_minimo,seguro,taxa_fixa,pedagio
SP,CAPITAL,0,10,50,80,"0,01",10,5
SP,INTERIOR,0,10,60,90,"0,01",12,5
`
	taxCSV = `uf_origem,uf_destino,divisor
SC,SP,2
`
	regionCSV = `uf,municipio,regiao
SP,SAO PAULO,CAPITAL
`
)

func writeTable(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newTestServer(t *testing.T) (*server.Server, *store.MemoryStore) {
	t.Helper()

	dir := t.TempDir()
	app := &config.Config{
		Tolerance: "0.01",
		Clients: map[string]config.ClientConfig{
			"acme": {
				Origin:      "ITAJAI",
				OriginUF:    "SC",
				RateTable:   writeTable(t, dir, "rates.csv", rateCSV),
				TaxTable:    writeTable(t, dir, "tax.csv", taxCSV),
				RegionTable: writeTable(t, dir, "regions.csv", regionCSV),
			},
		},
	}

	batches := store.NewMemoryStore()
	srv := server.NewServer(&server.Config{Address: ":8080"}, app, batches, logger.NewNopLogger())
	return srv, batches
}

func cteXML(number, city, state, volume, weight, cargo, billed string) []byte {
	return []byte(fmt.Sprintf(`<cteProc xmlns="http://www.portalfiscal.inf.br/cte"><CTe><infCte>
		<ide><nCT>%s</nCT><xMunFim>%s</xMunFim><UFFim>%s</UFFim></ide>
		<vPrest><vTPrest>%s</vTPrest></vPrest>
		<infCTeNorm><infCarga>
			<vCarga>%s</vCarga>
			<infQ><tpMed>PESO DECLARADO</tpMed><qCarga>%s</qCarga></infQ>
			<infQ><tpMed>PESO CUBADO</tpMed><qCarga>%s</qCarga></infQ>
		</infCarga></infCTeNorm>
	</infCte></CTe></cteProc>`, number, city, state, billed, cargo, weight, volume))
}

func multipartUpload(t *testing.T, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for name, content := range files {
		part, err := mw.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, "ok", response["status"])
	assert.NotEmpty(t, response["time"])
}

func TestClientsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/clients", nil)
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response server.ClientsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, []string{"acme"}, response.Clients)
}

func TestReconcileEndpoint(t *testing.T) {
	srv, batches := newTestServer(t)

	body, contentType := multipartUpload(t, map[string][]byte{
		"101.xml": cteXML("101", "SAO PAULO", "SP", "2.0", "250", "1000", "60,00"),
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reconcile?client=acme", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response server.BatchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	assert.NotEmpty(t, response.ID)
	assert.Equal(t, "acme", response.Client)
	assert.Equal(t, 1, response.Reconciled)
	require.Len(t, response.Results, 1)
	assert.Equal(t, "101", response.Results[0].InvoiceNumber)
	assert.Equal(t, model.StatusUnderbilled, response.Results[0].Status)
	assert.Equal(t, "67.5", response.Results[0].Expected.String())

	// Batch must be retrievable afterwards.
	stored, err := batches.Get(req.Context(), response.ID)
	require.NoError(t, err)
	assert.Equal(t, "acme", stored.Client)
}

func TestReconcileEndpoint_MixedBatch(t *testing.T) {
	srv, _ := newTestServer(t)

	body, contentType := multipartUpload(t, map[string][]byte{
		"101.xml":    cteXML("101", "SAO PAULO", "SP", "2.0", "250", "1000", "60,00"),
		"broken.xml": []byte("not xml"),
		"203.xml":    cteXML("203", "PORTO ALEGRE", "RS", "2.0", "100", "0", "100,00"),
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reconcile?client=acme", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response server.BatchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, 1, response.Reconciled)
	assert.Equal(t, 1, response.Unresolved)
	assert.Equal(t, 1, response.Errored)
	assert.Len(t, response.Results, 3)
}

func TestReconcileEndpoint_MissingClient(t *testing.T) {
	srv, _ := newTestServer(t)

	body, contentType := multipartUpload(t, map[string][]byte{
		"101.xml": cteXML("101", "SAO PAULO", "SP", "2.0", "250", "1000", "60,00"),
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reconcile", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReconcileEndpoint_UnknownClient(t *testing.T) {
	srv, _ := newTestServer(t)

	body, contentType := multipartUpload(t, map[string][]byte{
		"101.xml": cteXML("101", "SAO PAULO", "SP", "2.0", "250", "1000", "60,00"),
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reconcile?client=nobody", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReconcileEndpoint_NoFiles(t *testing.T) {
	srv, _ := newTestServer(t)

	body, contentType := multipartUpload(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reconcile?client=acme", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBatchEndpoint_NotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/batches/missing", nil)
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var response map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Contains(t, response["error"], "nothing to export")
}

func TestExportEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	body, contentType := multipartUpload(t, map[string][]byte{
		"101.xml": cteXML("101", "SAO PAULO", "SP", "2.0", "250", "1000", "60,00"),
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reconcile?client=acme", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var created server.BatchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	req = httptest.NewRequest(http.MethodGet, "/api/v1/batches/"+created.ID+"/export", nil)
	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "conferencia_frete_")

	csv := w.Body.String()
	assert.Contains(t, csv, "cte,origem,destino,valor_esperado,valor_cobrado,diferenca,status")
	assert.Contains(t, csv, "101,ITAJAI,SAO PAULO/SP,67.50,60.00,-7.50,UNDERBILLED")
	assert.Contains(t, csv, "TOTAL")
}

func TestExportEndpoint_NotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/batches/missing/export", nil)
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
