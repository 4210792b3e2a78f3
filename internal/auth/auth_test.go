package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/json"
	"encoding/pem"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"wanderai-backend/internal/common"
	"wanderai-backend/internal/logging"
	"wanderai-backend/internal/models"
)

const testProject = "wanderai-test"

type certServer struct {
	key  *rsa.PrivateKey
	srv  *httptest.Server
	hits atomic.Int32
}

func newCertServer(t *testing.T) *certServer {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "securetoken"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	require.NoError(t, err)
	certPEM := string(pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}))

	cs := &certServer{key: key}
	cs.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cs.hits.Add(1)
		w.Header().Set("Cache-Control", "public, max-age=3600, must-revalidate")
		_ = json.NewEncoder(w).Encode(map[string]string{"kid-1": certPEM})
	}))
	t.Cleanup(cs.srv.Close)
	return cs
}

func (cs *certServer) sign(t *testing.T, kid string, claims jwt.Claims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	tok.Header["kid"] = kid
	s, err := tok.SignedString(cs.key)
	require.NoError(t, err)
	return s
}

func firebaseToken(aud string, exp time.Time) *firebaseClaims {
	return &firebaseClaims{
		Email: "ana@example.com",
		Name:  "Ana",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "firebase-uid-1",
			Issuer:    firebaseIssuerPrefix + aud,
			Audience:  jwt.ClaimStrings{aud},
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
}

func TestFirebaseVerifier_ValidToken(t *testing.T) {
	cs := newCertServer(t)
	v := NewFirebaseVerifier(testProject, WithCertsURL(cs.srv.URL))

	raw := cs.sign(t, "kid-1", firebaseToken(testProject, time.Now().Add(time.Hour)))

	id, err := v.Verify(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "firebase-uid-1", id.Subject)
	assert.Equal(t, "ana@example.com", id.Email)
	assert.Equal(t, "Ana", id.DisplayName)

	_, err = v.Verify(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, int32(1), cs.hits.Load(), "certificates are cached")
}

func TestFirebaseVerifier_Rejects(t *testing.T) {
	cs := newCertServer(t)
	v := NewFirebaseVerifier(testProject, WithCertsURL(cs.srv.URL))

	hs := jwt.NewWithClaims(jwt.SigningMethodHS256, firebaseToken(testProject, time.Now().Add(time.Hour)))
	hs.Header["kid"] = "kid-1"
	hsRaw, err := hs.SignedString([]byte("secret"))
	require.NoError(t, err)

	tests := []struct {
		name string
		raw  string
	}{
		{"wrong audience", cs.sign(t, "kid-1", firebaseToken("other-project", time.Now().Add(time.Hour)))},
		{"expired", cs.sign(t, "kid-1", firebaseToken(testProject, time.Now().Add(-time.Minute)))},
		{"unknown kid", cs.sign(t, "kid-9", firebaseToken(testProject, time.Now().Add(time.Hour)))},
		{"hmac algorithm", hsRaw},
		{"garbage", "not-a-token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Verify(context.Background(), tt.raw)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestDevTokenIssuer_RoundTrip(t *testing.T) {
	d := NewDevTokenIssuer("dev-secret", time.Hour)

	raw, err := d.Issue("dev:ana", "ana@example.com", "Ana")
	require.NoError(t, err)

	id, err := d.Verify(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, &Identity{Subject: "dev:ana", Email: "ana@example.com", DisplayName: "Ana"}, id)
}

func TestDevTokenIssuer_RejectsOtherSecretAndExpired(t *testing.T) {
	d := NewDevTokenIssuer("dev-secret", time.Hour)
	other := NewDevTokenIssuer("other-secret", time.Hour)

	raw, err := other.Issue("dev:ana", "ana@example.com", "")
	require.NoError(t, err)
	_, err = d.Verify(context.Background(), raw)
	assert.ErrorIs(t, err, ErrInvalidToken)

	past := NewDevTokenIssuer("dev-secret", time.Minute)
	past.now = func() time.Time { return time.Now().Add(-time.Hour) }
	raw, err = past.Issue("dev:ana", "ana@example.com", "")
	require.NoError(t, err)
	_, err = d.Verify(context.Background(), raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestGoogleVerifier_UserInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer ya29.token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1234","email":"bo@example.com","name":"Bo"}`))
	}))
	defer srv.Close()

	g := NewGoogleVerifier(option.WithEndpoint(srv.URL + "/"))

	id, err := g.Verify(context.Background(), "ya29.token")
	require.NoError(t, err)
	assert.Equal(t, "google:1234", id.Subject)
	assert.Equal(t, "bo@example.com", id.Email)

	_, err = g.Verify(context.Background(), "ya29.revoked")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestGoogleVerifier_SkipsJWTs(t *testing.T) {
	_, err := NewGoogleVerifier().Verify(context.Background(), "a.b.c")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestChainVerifier_FirstAcceptWins(t *testing.T) {
	dev := NewDevTokenIssuer("dev-secret", time.Hour)
	raw, err := dev.Issue("dev:x", "x@example.com", "")
	require.NoError(t, err)

	chain := ChainVerifier{NewDevTokenIssuer("wrong", time.Hour), dev}
	id, err := chain.Verify(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "dev:x", id.Subject)

	_, err = ChainVerifier{NewDevTokenIssuer("wrong", time.Hour)}.Verify(context.Background(), raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

type fakeUsers struct {
	bySubject map[string]*models.User
	getErr    error
	created   int
	// racing is committed by a concurrent request between the email lookup
	// and the insert.
	racing *models.User
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.bySubject {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeUsers) GetByFirebaseUID(_ context.Context, uid string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if u, ok := f.bySubject[uid]; ok {
		return u, nil
	}
	return nil, common.ErrNotFound
}

func (f *fakeUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	if f.racing != nil && f.racing.Email == u.Email {
		f.bySubject[f.racing.FirebaseUID] = f.racing
		return nil, fmt.Errorf("create user users_email_key: %w", common.ErrConflict)
	}
	f.created++
	u.ID = uuid.New()
	f.bySubject[u.FirebaseUID] = u
	return u, nil
}

func TestResolver_CreatesUserOnce(t *testing.T) {
	dev := NewDevTokenIssuer("dev-secret", time.Hour)
	users := &fakeUsers{bySubject: map[string]*models.User{}}
	r := NewResolver(dev, users, logging.Discard())
	raw, err := dev.Issue("dev:ana", "ana@example.com", "Ana")
	require.NoError(t, err)

	first, err := r.Resolve(context.Background(), raw)
	require.NoError(t, err)
	second, err := r.Resolve(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, users.created)
	assert.Equal(t, "Ana", *first.DisplayName)
}

func TestResolver_SameEmailAcrossProviders(t *testing.T) {
	dev := NewDevTokenIssuer("dev-secret", time.Hour)
	existing := &models.User{ID: uuid.New(), FirebaseUID: "firebase-uid-1", Email: "ana@example.com"}
	users := &fakeUsers{bySubject: map[string]*models.User{existing.FirebaseUID: existing}}
	raw, err := dev.Issue("google:1234", "ana@example.com", "Ana")
	require.NoError(t, err)

	user, err := NewResolver(dev, users, logging.Discard()).Resolve(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, existing.ID, user.ID)
	assert.Zero(t, users.created)
}

func TestResolver_EmailTakenWhileCreating(t *testing.T) {
	dev := NewDevTokenIssuer("dev-secret", time.Hour)
	winner := &models.User{ID: uuid.New(), FirebaseUID: "firebase-uid-2", Email: "li@example.com"}
	users := &fakeUsers{bySubject: map[string]*models.User{}, racing: winner}
	raw, err := dev.Issue("google:5678", "li@example.com", "")
	require.NoError(t, err)

	user, err := NewResolver(dev, users, logging.Discard()).Resolve(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, winner.ID, user.ID)
}

func TestResolver_FailuresAreUnauthorized(t *testing.T) {
	dev := NewDevTokenIssuer("dev-secret", time.Hour)
	noEmail, err := dev.Issue("dev:anon", "", "")
	require.NoError(t, err)
	valid, err := dev.Issue("dev:ana", "ana@example.com", "")
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		users *fakeUsers
	}{
		{"empty token", "", &fakeUsers{bySubject: map[string]*models.User{}}},
		{"bad token", "junk", &fakeUsers{bySubject: map[string]*models.User{}}},
		{"no email", noEmail, &fakeUsers{bySubject: map[string]*models.User{}}},
		{"store down", valid, &fakeUsers{getErr: errors.New("db down")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewResolver(dev, tt.users, logging.Discard()).Resolve(context.Background(), tt.token)

			var appErr *common.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, http.StatusUnauthorized, appErr.Status)
			assert.Equal(t, common.CodeAuth, appErr.Code)
			assert.Equal(t, CredentialsMessage, appErr.Message)
		})
	}
}
