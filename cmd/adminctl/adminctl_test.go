package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/encoding/charmap"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCommandPresence(t *testing.T) {
	cmd := newRootCommand()
	for _, name := range []string{"hash-password", "seed", "search"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestHashPassword_ArgumentoYStdin(t *testing.T) {
	out, err := run(t, "", "hash-password", "--cost", "4", "123456")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(strings.TrimSpace(out)), []byte("123456")))

	out, err = run(t, "s3cret!\n", "hash-password", "--cost", "4")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(strings.TrimSpace(out)), []byte("s3cret!")))
}

func TestHashPassword_Corta(t *testing.T) {
	_, err := run(t, "", "hash-password", "12345")
	assert.Error(t, err)
}

func TestReadSeedData_HasheaYValida(t *testing.T) {
	in := `{
		"users": [{"id": "u1", "name": "User", "email": "user@nextmail.com", "password": "123456"}],
		"customers": [{"id": "c1", "name": "Delba de Oliveira", "email": "delba@oliveira.com", "image_url": "/customers/delba.png"}],
		"invoices": [{"customer_id": "c1", "amount": 15795, "status": "pending", "date": "2022-12-06"}],
		"revenue": [{"month": "Jan", "revenue": 2000}]
	}`

	data, err := readSeedData(strings.NewReader(in), "utf-8", bcrypt.MinCost)

	require.NoError(t, err)
	require.Len(t, data.Users, 1)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(data.Users[0].PasswordHash), []byte("123456")))
	assert.Equal(t, int64(15795), data.Invoices[0].Amount)
	assert.Equal(t, "Jan", data.Revenue[0].Month)
}

func TestReadSeedData_Latin1(t *testing.T) {
	raw, err := charmap.ISO8859_1.NewEncoder().String(`{"customers": [{"id": "c1", "name": "Begoña Núñez"}]}`)
	require.NoError(t, err)

	data, err := readSeedData(strings.NewReader(raw), "latin1", bcrypt.MinCost)

	require.NoError(t, err)
	assert.Equal(t, "Begoña Núñez", data.Customers[0].Name)
}

func TestReadSeedData_FacturaInvalida(t *testing.T) {
	in := `{"invoices": [{"customer_id": "c1", "amount": 0, "status": "pending", "date": "2022-12-06"}]}`

	_, err := readSeedData(strings.NewReader(in), "", bcrypt.MinCost)

	assert.Error(t, err)
}

func TestSearch_RafagaProduceUnaURL(t *testing.T) {
	out, err := run(t, "d\nde\ndelba\n", "search", "--wait", "20ms")

	require.NoError(t, err)
	assert.Equal(t, "/dashboard/invoices?page=1&query=delba\n", out)
}

func TestSearch_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "lee", r.URL.Query().Get("query"))
		c, err := r.Cookie("session")
		if assert.NoError(t, err) {
			assert.Equal(t, "tok", c.Value)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"invoices":[{"id":"inv-1"}],"page":1,"total_pages":1}`))
	}))
	defer srv.Close()

	out, err := run(t, "lee\n", "search", "--wait", "10ms", "--fetch", srv.URL, "--cookie", "tok")

	require.NoError(t, err)
	assert.Contains(t, out, "/dashboard/invoices?page=1&query=lee")
	assert.Contains(t, out, "1 facturas (página 1 de 1)")
}
