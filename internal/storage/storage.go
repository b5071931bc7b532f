// Package storage 封裝頭像物件儲存供應商
package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Storage 上傳物件並回傳公開可讀取的 URL；刪除以 key 為準
// KeyFromURL 自先前回傳的 URL 還原 key，無法對應時回傳空字串
type Storage interface {
	Upload(ctx context.Context, key, contentType string, data []byte) (string, error)
	Delete(ctx context.Context, key string) error
	KeyFromURL(url string) string
}

// FakeStorage 供測試替換
type FakeStorage struct {
	UploadFn     func(ctx context.Context, key, contentType string, data []byte) (string, error)
	DeleteFn     func(ctx context.Context, key string) error
	KeyFromURLFn func(url string) string
}

func (f *FakeStorage) Upload(ctx context.Context, key, contentType string, data []byte) (string, error) {
	if f.UploadFn != nil {
		return f.UploadFn(ctx, key, contentType, data)
	}
	panic("unexpected Upload")
}

func (f *FakeStorage) Delete(ctx context.Context, key string) error {
	if f.DeleteFn != nil {
		return f.DeleteFn(ctx, key)
	}
	panic("unexpected Delete")
}

func (f *FakeStorage) KeyFromURL(url string) string {
	if f.KeyFromURLFn != nil {
		return f.KeyFromURLFn(url)
	}
	return ""
}

// NewAvatarKey 產生新的頭像物件 key
func NewAvatarKey() string {
	return fmt.Sprintf("avatars/%v", uuid.New())
}
