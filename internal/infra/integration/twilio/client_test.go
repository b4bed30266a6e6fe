package twilio

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSend_ReturnsMessageSID(t *testing.T) {
	var gotPath, gotFrom, gotTo, gotBody string
	var gotUser, gotPass string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUser, gotPass, _ = r.BasicAuth()
		assert.NoError(t, r.ParseForm())
		gotFrom = r.PostForm.Get("From")
		gotTo = r.PostForm.Get("To")
		gotBody = r.PostForm.Get("Body")

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"sid":"SM123","status":"queued"}`))
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL)
	sid, err := client.Send(context.Background(), "ACxxx", "tok", "+15550001111", "+15550002222", "hello")

	assert.NoError(t, err)
	assert.Equal(t, "SM123", sid)
	assert.Equal(t, "/Accounts/ACxxx/Messages.json", gotPath)
	assert.Equal(t, "ACxxx", gotUser)
	assert.Equal(t, "tok", gotPass)
	assert.Equal(t, "+15550001111", gotFrom)
	assert.Equal(t, "+15550002222", gotTo)
	assert.Equal(t, "hello", gotBody)
}

func TestSend_ErrorStatusSurfacesBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"code":21211,"message":"Invalid 'To' phone number"}`))
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL)
	_, err := client.Send(context.Background(), "ACxxx", "tok", "+1555", "bogus", "hello")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
	assert.Contains(t, err.Error(), "21211")
}

func TestValidateCredentials_OK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/Accounts/ACxxx.json", r.URL.Path)
		w.Write([]byte(`{"sid":"ACxxx","friendly_name":"Clinica Norte","status":"active"}`))
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL)
	info, err := client.ValidateCredentials(context.Background(), "ACxxx", "tok")

	assert.NoError(t, err)
	assert.Equal(t, "Clinica Norte", info.FriendlyName)
	assert.Equal(t, "active", info.Status)
}

func TestValidateCredentials_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL)
	info, err := client.ValidateCredentials(context.Background(), "ACxxx", "wrong")

	assert.Nil(t, info)
	assert.ErrorContains(t, err, "rejected")
}
