package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"chef/internal/model"
	"chef/internal/service"
)

type pageMessages struct {
	Messages []FlashMessage `json:"messages"`
}

func TestListDishes(t *testing.T) {
	e := newTestEnv(t)

	e.dishes.On("List", mock.Anything, testOwner, "soup").
		Return([]model.Dish{{ID: "d1", Title: "Pea soup"}}, nil).Once()
	e.dishes.On("Suggest", mock.Anything, testOwner).
		Return([]model.DishSuggestion{{Dish: model.Dish{ID: "d2", Title: "Chili"}}}, nil).Once()

	resp := e.do(t, http.MethodGet, "/dishes?q=soup", nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Dishes      []model.Dish           `json:"dishes"`
		Suggestions []model.DishSuggestion `json:"dish_suggestions"`
		Messages    []FlashMessage         `json:"messages"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Len(t, body.Dishes, 1)
	assert.Equal(t, "Chili", body.Suggestions[0].Title)
	assert.NotNil(t, body.Messages)
	e.dishes.AssertExpectations(t)
}

func TestDishCreateForm(t *testing.T) {
	e := newTestEnv(t)

	resp := e.do(t, http.MethodGet, "/dishes/new?term=Lasagne", nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Title   string            `json:"title"`
		Initial map[string]string `json:"initial"`
		Fields  []formField       `json:"fields"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Create a new dish", body.Title)
	assert.Equal(t, "Lasagne", body.Initial["title"])
	assert.Equal(t, model.ExcludeFromSuggestionsHelp, body.Fields[2].HelpText)
}

func TestCreateDish(t *testing.T) {
	t.Run("redirects to the dish list", func(t *testing.T) {
		e := newTestEnv(t)
		e.dishes.On("Create", mock.Anything, testOwner, service.DishInput{Title: "Soup", Text: "hot"}).
			Return(&model.Dish{ID: "d1", Title: "Soup"}, nil).Once()

		resp := e.do(t, http.MethodPost, "/dishes/new", form(map[string]string{"title": "Soup", "text": "hot"}))

		assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/dishes", resp.Header.Get("Location"))
		e.dishes.AssertExpectations(t)
	})

	t.Run("accepts json", func(t *testing.T) {
		e := newTestEnv(t)
		e.dishes.On("Create", mock.Anything, testOwner, service.DishInput{Title: "Away day", ExcludeFromSuggestions: true}).
			Return(&model.Dish{ID: "d1"}, nil).Once()

		resp := e.do(t, http.MethodPost, "/dishes/new",
			bytes.NewBufferString(`{"title":"Away day","exclude_from_suggestions":true}`), jsonBody())

		assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
		e.dishes.AssertExpectations(t)
	})

	t.Run("duplicate warns and goes back", func(t *testing.T) {
		e := newTestEnv(t)
		e.dishes.On("Create", mock.Anything, testOwner, mock.Anything).Return(nil, service.ErrDuplicate).Once()
		e.dishes.On("List", mock.Anything, testOwner, "").Return([]model.Dish{}, nil)
		e.dishes.On("Suggest", mock.Anything, testOwner).Return([]model.DishSuggestion{}, nil)

		resp := e.do(t, http.MethodPost, "/dishes/new", form(map[string]string{"title": " Soup "}))

		assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/dishes/new", resp.Header.Get("Location"))

		var page pageMessages
		resp = e.do(t, http.MethodGet, "/dishes", nil)
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
		require.Len(t, page.Messages, 1)
		assert.Equal(t, FlashMessage{Level: FlashWarning, Text: "Soup was a duplicate, which is not allowed"}, page.Messages[0])

		resp = e.do(t, http.MethodGet, "/dishes", nil)
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
		assert.Empty(t, page.Messages)
	})

	t.Run("validation error", func(t *testing.T) {
		e := newTestEnv(t)
		e.dishes.On("Create", mock.Anything, testOwner, mock.Anything).Return(nil, service.ErrTitleRequired).Once()

		resp := e.do(t, http.MethodPost, "/dishes/new", form(map[string]string{"title": ""}))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		body := decodeError(t, resp)
		assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
		assert.Equal(t, "title is required", body.Error.Message)
	})

	t.Run("service error", func(t *testing.T) {
		e := newTestEnv(t)
		e.dishes.On("Create", mock.Anything, testOwner, mock.Anything).Return(nil, errors.New("db down")).Once()

		resp := e.do(t, http.MethodPost, "/dishes/new", form(map[string]string{"title": "Soup"}))

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, "internal server error", decodeError(t, resp).Error.Message)
	})
}

func TestCreateDish_ReturnsToMealFormOnce(t *testing.T) {
	e := newTestEnv(t)
	e.dishes.On("Create", mock.Anything, testOwner, mock.Anything).Return(&model.Dish{ID: "d1"}, nil)

	resp := e.do(t, http.MethodGet, "/dishes/new?term=Soup", nil, withReferer("http://example.com/meals/new"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, e.cookie)

	resp = e.do(t, http.MethodPost, "/dishes/new", form(map[string]string{"title": "Soup"}),
		withReferer("http://example.com/dishes/new?term=Soup"))
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/meals/new", resp.Header.Get("Location"))

	resp = e.do(t, http.MethodPost, "/dishes/new", form(map[string]string{"title": "Stew"}),
		withReferer("http://example.com/dishes/new"))
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/dishes", resp.Header.Get("Location"))
}

func TestCreateDish_ReturnsToPrefilledMealForm(t *testing.T) {
	e := newTestEnv(t)
	e.dishes.On("Create", mock.Anything, testOwner, mock.Anything).Return(&model.Dish{ID: "d1"}, nil)

	e.do(t, http.MethodGet, "/dishes/new", nil, withReferer("http://example.com/meals/new?date=2026-10-20&dish_id=d0"))
	resp := e.do(t, http.MethodPost, "/dishes/new", form(map[string]string{"title": "Soup"}))

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/meals/new?date=2026-10-20&dish_id=d0", resp.Header.Get("Location"))
}

func TestCreateDish_IgnoresOtherReferrers(t *testing.T) {
	referrers := map[string]string{
		"foreign host":   "http://elsewhere.test/meals/new",
		"other route":    "http://example.com/meals",
		"unknown path":   "http://example.com/nowhere",
		"not a url":      "::::",
		"relative":       "/meals/new",
		"trailing slash": "http://example.com/meals/new/",
	}
	for name, ref := range referrers {
		t.Run(name, func(t *testing.T) {
			e := newTestEnv(t)
			e.dishes.On("Create", mock.Anything, testOwner, mock.Anything).Return(&model.Dish{ID: "d1"}, nil)

			e.do(t, http.MethodGet, "/dishes/new", nil, withReferer(ref))
			resp := e.do(t, http.MethodPost, "/dishes/new", form(map[string]string{"title": "Soup"}))

			want := "/dishes"
			if name == "trailing slash" {
				want = "/meals/new/"
			}
			assert.Equal(t, want, resp.Header.Get("Location"))
		})
	}
}

func TestUpdateDish(t *testing.T) {
	id := uuid.NewString()

	t.Run("form context", func(t *testing.T) {
		e := newTestEnv(t)
		e.dishes.On("Get", mock.Anything, testOwner, id).Return(&model.Dish{ID: id, Title: "Soup"}, nil).Once()

		resp := e.do(t, http.MethodGet, "/dishes/"+id+"/edit", nil)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body struct {
			Title  string     `json:"title"`
			Object model.Dish `json:"object"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "Edit dish", body.Title)
		assert.Equal(t, "Soup", body.Object.Title)
	})

	t.Run("someone else's dish", func(t *testing.T) {
		e := newTestEnv(t)
		e.dishes.On("Get", mock.Anything, testOwner, id).Return(nil, service.ErrForbidden).Once()

		resp := e.do(t, http.MethodGet, "/dishes/"+id+"/edit", nil)

		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		assert.Equal(t, "That's not yours to update!", decodeError(t, resp).Error.Message)
	})

	t.Run("saves and redirects", func(t *testing.T) {
		e := newTestEnv(t)
		e.dishes.On("Update", mock.Anything, testOwner, id, service.DishInput{Title: "Stew"}).
			Return(&model.Dish{ID: id}, nil).Once()

		resp := e.do(t, http.MethodPost, "/dishes/"+id+"/edit", form(map[string]string{"title": "Stew"}))

		assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/dishes", resp.Header.Get("Location"))
	})

	t.Run("duplicate title", func(t *testing.T) {
		e := newTestEnv(t)
		e.dishes.On("Update", mock.Anything, testOwner, id, mock.Anything).Return(nil, service.ErrDuplicate).Once()

		resp := e.do(t, http.MethodPost, "/dishes/"+id+"/edit", form(map[string]string{"title": "Stew"}))

		assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/dishes/"+id+"/edit", resp.Header.Get("Location"))
	})

	t.Run("missing dish", func(t *testing.T) {
		e := newTestEnv(t)
		e.dishes.On("Update", mock.Anything, testOwner, id, mock.Anything).Return(nil, service.ErrNotFound).Once()

		resp := e.do(t, http.MethodPost, "/dishes/"+id+"/edit", form(map[string]string{"title": "Stew"}))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("invalid id", func(t *testing.T) {
		e := newTestEnv(t)

		resp := e.do(t, http.MethodGet, "/dishes/not-a-uuid/edit", nil)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_ID", decodeError(t, resp).Error.Code)
	})
}

func TestDeleteDish(t *testing.T) {
	id := uuid.NewString()

	t.Run("confirm page", func(t *testing.T) {
		e := newTestEnv(t)
		e.dishes.On("Get", mock.Anything, testOwner, id).Return(&model.Dish{ID: id}, nil).Once()

		resp := e.do(t, http.MethodGet, "/dishes/"+id+"/delete", nil)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("deletes", func(t *testing.T) {
		e := newTestEnv(t)
		e.dishes.On("Delete", mock.Anything, testOwner, id).Return(nil).Once()

		resp := e.do(t, http.MethodPost, "/dishes/"+id+"/delete", nil)

		assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/dishes", resp.Header.Get("Location"))
		e.dishes.AssertExpectations(t)
	})

	t.Run("someone else's dish", func(t *testing.T) {
		e := newTestEnv(t)
		e.dishes.On("Delete", mock.Anything, testOwner, id).Return(service.ErrForbidden).Once()

		resp := e.do(t, http.MethodPost, "/dishes/"+id+"/delete", nil)

		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		assert.Equal(t, "That's not yours to delete!", decodeError(t, resp).Error.Message)
	})
}

func TestDishPhoto(t *testing.T) {
	id := uuid.NewString()

	upload := func() (*bytes.Buffer, string) {
		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		part, _ := writer.CreateFormFile("photo", "soup.jpg")
		part.Write([]byte("jpeg bytes"))
		writer.Close()
		return body, writer.FormDataContentType()
	}

	t.Run("upload", func(t *testing.T) {
		e := newTestEnv(t)
		e.dishes.On("UploadPhoto", mock.Anything, testOwner, id, mock.Anything, "soup.jpg", mock.Anything, int64(10)).
			Return(&model.Dish{ID: id, PhotoKey: "dishes/owner-1/x.jpg"}, nil).Once()

		body, ct := upload()
		resp := e.do(t, http.MethodPost, "/dishes/"+id+"/photo", body, func(r *http.Request) {
			r.Header.Set("Content-Type", ct)
		})

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var dish model.Dish
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&dish))
		assert.Equal(t, "dishes/owner-1/x.jpg", dish.PhotoKey)
		e.dishes.AssertExpectations(t)
	})

	t.Run("upload without file", func(t *testing.T) {
		e := newTestEnv(t)

		resp := e.do(t, http.MethodPost, "/dishes/"+id+"/photo", nil)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "FILE_REQUIRED", decodeError(t, resp).Error.Code)
	})

	t.Run("storage disabled", func(t *testing.T) {
		e := newTestEnv(t)
		e.dishes.On("UploadPhoto", mock.Anything, testOwner, id, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil, service.ErrStorageDisabled).Once()

		body, ct := upload()
		resp := e.do(t, http.MethodPost, "/dishes/"+id+"/photo", body, func(r *http.Request) {
			r.Header.Set("Content-Type", ct)
		})

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})

	t.Run("download redirects to presigned url", func(t *testing.T) {
		e := newTestEnv(t)
		e.dishes.On("PhotoURL", mock.Anything, testOwner, id).Return("http://minio.local/chef-photos/x.jpg?sig=1", nil).Once()

		resp := e.do(t, http.MethodGet, "/dishes/"+id+"/photo", nil)

		assert.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, "http://minio.local/chef-photos/x.jpg?sig=1", resp.Header.Get("Location"))
	})

	t.Run("no photo", func(t *testing.T) {
		e := newTestEnv(t)
		e.dishes.On("PhotoURL", mock.Anything, testOwner, id).Return("", service.ErrNoPhoto).Once()

		resp := e.do(t, http.MethodGet, "/dishes/"+id+"/photo", nil)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NO_PHOTO", decodeError(t, resp).Error.Code)
	})
}
