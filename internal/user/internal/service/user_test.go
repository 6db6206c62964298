// Copyright 2023 ecodeclub
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ecodeclub/resumebuilder/internal/pkg/apiclient"
	"github.com/ecodeclub/resumebuilder/internal/user/internal/domain"
	"github.com/ecodeclub/resumebuilder/internal/user/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	users map[int64]domain.User
}

func (f *fakeUserRepo) Save(ctx context.Context, u domain.User) error {
	f.users[u.Id] = u
	return nil
}

func (f *fakeUserRepo) FindById(ctx context.Context, id int64) (domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return domain.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

type fakeTokenRepo struct {
	client *apiclient.Client
	saved  map[int64]apiclient.Tokens
}

func (f *fakeTokenRepo) Save(ctx context.Context, uid int64, tokens apiclient.Tokens) error {
	f.saved[uid] = tokens
	return nil
}

func (f *fakeTokenRepo) Clear(ctx context.Context, uid int64) error {
	delete(f.saved, uid)
	return nil
}

func (f *fakeTokenRepo) Session(uid int64) *apiclient.Session {
	store := apiclient.NewMemoryTokenStore()
	if tokens, ok := f.saved[uid]; ok {
		_ = store.Save(context.Background(), tokens)
	}
	return f.client.Session(store)
}

type fakeProfileRepo struct {
	evicted []int64
}

func (f *fakeProfileRepo) Get(ctx context.Context, uid int64) (domain.Profile, error) {
	return domain.Profile{User: domain.User{Id: uid, Username: "tom"}, City: "Hangzhou", Country: "China"}, nil
}

func (f *fakeProfileRepo) Update(ctx context.Context, uid int64, city, country string) (domain.Profile, error) {
	return domain.Profile{User: domain.User{Id: uid, Username: "tom"}, City: city, Country: country}, nil
}

func (f *fakeProfileRepo) Evict(ctx context.Context, uid int64) error {
	f.evicted = append(f.evicted, uid)
	return nil
}

func accessToken(t *testing.T, uid int64) string {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": uid,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	return token
}

// newUpstream meFails 为 true 的时候 /auth/user/ 返回 500
func newUpstream(t *testing.T, access string, meFails bool) *httptest.Server {
	mux := http.NewServeMux()
	writeJSON := func(w http.ResponseWriter, status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}
	mux.HandleFunc("/auth/token/", func(w http.ResponseWriter, r *http.Request) {
		var cred apiclient.Credentials
		_ = json.NewDecoder(r.Body).Decode(&cred)
		if cred.Password != "secret123" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "No active account"})
			return
		}
		writeJSON(w, http.StatusOK, apiclient.Tokens{Access: access, Refresh: "refresh"})
	})
	mux.HandleFunc("/auth/user/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			var reg apiclient.Registration
			_ = json.NewDecoder(r.Body).Decode(&reg)
			switch reg.Username {
			case "tom":
				writeJSON(w, http.StatusBadRequest, map[string][]string{
					"username": {"A user with that username already exists."},
				})
			case "bad name":
				writeJSON(w, http.StatusBadRequest, map[string][]string{
					"username": {"Enter a valid username."},
				})
			default:
				writeJSON(w, http.StatusCreated, apiclient.User{Username: reg.Username, Email: reg.Email})
			}
			return
		}
		if meFails {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, apiclient.User{Username: "tom", Email: "tom@example.com"})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestService(t *testing.T, server *httptest.Server) (*userService, *fakeUserRepo, *fakeTokenRepo, *fakeProfileRepo) {
	client := apiclient.NewClient(apiclient.Config{BaseURL: server.URL, Timeout: time.Second})
	users := &fakeUserRepo{users: map[int64]domain.User{}}
	tokens := &fakeTokenRepo{client: client, saved: map[int64]apiclient.Tokens{}}
	profiles := &fakeProfileRepo{}
	svc := NewUserService(client, users, tokens, profiles).(*userService)
	return svc, users, tokens, profiles
}

func TestUserService_Login(t *testing.T) {
	testCases := []struct {
		name      string
		password  string
		meFails   bool
		wantErr   error
		wantSaved bool
	}{
		{
			name:      "登录成功",
			password:  "secret123",
			wantSaved: true,
		},
		{
			name:     "密码错误",
			password: "wrong",
			wantErr:  ErrInvalidCredentials,
		},
		{
			name:     "获取用户信息失败",
			password: "secret123",
			meFails:  true,
			wantErr:  apiclient.ErrServer,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			access := accessToken(t, 42)
			svc, users, tokens, _ := newTestService(t, newUpstream(t, access, tc.meFails))
			u, err := svc.Login(context.Background(), "tom", tc.password)
			assert.ErrorIs(t, err, tc.wantErr)
			if !tc.wantSaved {
				// 失败的时候什么都不保存
				assert.Empty(t, users.users)
				assert.Empty(t, tokens.saved)
				return
			}
			assert.Equal(t, int64(42), u.Id)
			assert.Equal(t, "tom", u.Username)
			assert.Equal(t, "tom@example.com", u.Email)
			assert.Equal(t, u, users.users[42])
			assert.Equal(t, apiclient.Tokens{Access: access, Refresh: "refresh"}, tokens.saved[42])
		})
	}
}

func TestUserService_Register(t *testing.T) {
	testCases := []struct {
		name     string
		username string
		wantErr  func(t *testing.T, err error)
	}{
		{
			name:     "注册成功",
			username: "jerry",
			wantErr: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name:     "用户名重复",
			username: "tom",
			wantErr: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrUsernameDuplicate)
			},
		},
		{
			name:     "用户名不合法",
			username: "bad name",
			wantErr: func(t *testing.T, err error) {
				var apiErr *apiclient.APIError
				require.ErrorAs(t, err, &apiErr)
				msg, _ := apiErr.FieldError("username")
				assert.Equal(t, "Enter a valid username.", msg)
			},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc, _, _, _ := newTestService(t, newUpstream(t, "", false))
			_, err := svc.Register(context.Background(), domain.Registration{
				Username: tc.username,
				Email:    "x@example.com",
				Password: "secret123",
			})
			tc.wantErr(t, err)
		})
	}
}

func TestUserService_Profile(t *testing.T) {
	svc, users, tokens, profiles := newTestService(t, newUpstream(t, "", false))
	users.users[42] = domain.User{Id: 42, Username: "tom", Email: "tom@example.com"}
	tokens.saved[42] = apiclient.Tokens{Access: "a", Refresh: "r"}

	p, err := svc.Profile(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, domain.Profile{
		User:    domain.User{Id: 42, Username: "tom", Email: "tom@example.com"},
		City:    "Hangzhou",
		Country: "China",
	}, p)

	p, err = svc.UpdateProfile(context.Background(), 42, "Paris", "France")
	require.NoError(t, err)
	assert.Equal(t, "tom@example.com", p.User.Email)
	assert.Equal(t, "Paris", p.City)

	_, err = svc.Profile(context.Background(), 43)
	assert.ErrorIs(t, err, ErrUserNotFound)

	require.NoError(t, svc.Logout(context.Background(), 42))
	assert.Empty(t, tokens.saved)
	assert.Equal(t, []int64{42}, profiles.evicted)
}
