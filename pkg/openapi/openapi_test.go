package openapi

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/mockadapter/pkg/adapter"
	"github.com/getmockd/mockadapter/pkg/config"
)

const petstore = `openapi: 3.0.3
info:
  title: Petstore
  version: 1.0.0
servers:
  - url: https://pets.test/v1/
paths:
  /pets:
    get:
      operationId: listPets
      responses:
        "200":
          description: ok
          content:
            application/json:
              example: [{id: 1, name: rex}]
    post:
      operationId: createPet
      responses:
        "201":
          description: created
        "400":
          description: bad
  /pets/{petId}:
    parameters:
      - name: petId
        in: path
        required: true
        schema: {type: integer}
    get:
      operationId: getPet
      responses:
        "404":
          description: missing
        "200":
          description: ok
          content:
            application/json:
              examples:
                rex:
                  value: {id: 1, name: rex}
    delete:
      operationId: deletePet
      responses:
        default:
          description: whatever
  /pets/mine:
    get:
      operationId: myPets
      responses:
        "203":
          description: partial
          content:
            application/json:
              schema:
                type: array
                example: []
`

func TestImport(t *testing.T) {
	doc, err := LoadData([]byte(petstore))
	require.NoError(t, err)

	c := Import(doc, Options{})
	assert.Equal(t, "Petstore", c.Name)
	assert.Equal(t, "https://pets.test/v1", c.Options.BaseURL)
	assert.Equal(t, map[string]string{":petId": `\d+`}, c.Options.KnownRouteParams)
	assert.True(t, config.Validate(c).IsValid())

	byName := map[string]*config.Route{}
	for _, r := range c.Routes {
		byName[r.Name] = r
	}
	require.Len(t, byName, 5)

	assert.Equal(t, "GET /pets/:petId", byName["getPet"].Describe())
	assert.Equal(t, 200, byName["getPet"].Reply.Status)
	assert.Equal(t, 201, byName["createPet"].Reply.Status)
	assert.Nil(t, byName["createPet"].Reply.Body)
	assert.Equal(t, 200, byName["deletePet"].Reply.Status)
	assert.Equal(t, 203, byName["myPets"].Reply.Status)
	assert.Equal(t, []any{}, byName["myPets"].Reply.Body)
	assert.Equal(t, "application/json", byName["listPets"].Reply.Headers["Content-Type"])

	var mineIdx, templIdx int
	for i, r := range c.Routes {
		switch r.Name {
		case "myPets":
			mineIdx = i
		case "getPet":
			templIdx = i
		}
	}
	assert.Less(t, mineIdx, templIdx, "concrete paths come before templated ones")
}

func TestImportOptionsOverride(t *testing.T) {
	doc, err := LoadData([]byte(petstore))
	require.NoError(t, err)

	c := Import(doc, Options{BaseURL: "http://localhost:8080", Name: "pets"})
	assert.Equal(t, "pets", c.Name)
	assert.Equal(t, "http://localhost:8080", c.Options.BaseURL)
}

func TestImportedCollectionServesRequests(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "petstore.yaml")
	require.NoError(t, os.WriteFile(path, []byte(petstore), 0o644))

	c, err := ImportFile(path, Options{})
	require.NoError(t, err)

	client := &http.Client{}
	a, err := config.NewAdapter(client, c, slogt.New(t))
	require.NoError(t, err)
	defer a.Restore()

	resp, err := client.Get("https://pets.test/v1/pets/42")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"name":"rex"}`, string(body))

	_, err = client.Get("https://pets.test/v1/pets/rex")
	assert.ErrorIs(t, err, adapter.ErrNoMatch)
}

func TestLoadErrors(t *testing.T) {
	_, err := LoadData([]byte("not: [an openapi"))
	assert.Error(t, err)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadData([]byte("openapi: 3.0.3\ninfo: {version: 1}\npaths: {}\n"))
	assert.Error(t, err, "title is required")
}

func TestConvertPath(t *testing.T) {
	assert.Equal(t, "/a/:id/b/:name", convertPath("/a/{id}/b/{name}"))
	assert.Equal(t, "/plain", convertPath("/plain"))
}
