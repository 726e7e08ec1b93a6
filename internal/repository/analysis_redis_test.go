package repository

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
)

func TestRedisAnalysisCache(t *testing.T) {
	const ttl = 90 * time.Minute
	rec := sampleRecord()
	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("miss", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		mock.ExpectGet(analysisKeyPrefix + "k").RedisNil()

		_, ok, err := NewRedisAnalysisCache(client, ttl).GetAnalysis(context.Background(), "k")
		if err != nil || ok {
			t.Errorf("ok = %v, err = %v, want a clean miss", ok, err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Error(err)
		}
	})

	t.Run("hit", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		mock.ExpectGet(analysisKeyPrefix + rec.RequestKey).SetVal(string(data))

		got, ok, err := NewRedisAnalysisCache(client, ttl).GetAnalysis(context.Background(), rec.RequestKey)
		if err != nil || !ok {
			t.Fatalf("ok = %v, err = %v", ok, err)
		}
		if got.ID != rec.ID || len(got.Result.Variations) != 2 || got.Result.Variations[0] != rec.Result.Variations[0] {
			t.Errorf("record = %+v", got)
		}
	})

	t.Run("unreachable", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		mock.ExpectGet(analysisKeyPrefix + "k").SetErr(errors.New("dial tcp: connection refused"))

		_, ok, err := NewRedisAnalysisCache(client, ttl).GetAnalysis(context.Background(), "k")
		if err == nil || ok {
			t.Errorf("ok = %v, err = %v, want an error", ok, err)
		}
	})

	t.Run("corrupt entry", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		mock.ExpectGet(analysisKeyPrefix + "k").SetVal("{not json")

		if _, _, err := NewRedisAnalysisCache(client, ttl).GetAnalysis(context.Background(), "k"); err == nil {
			t.Error("corrupt entry decoded without error")
		}
	})

	t.Run("store", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		mock.ExpectSet(analysisKeyPrefix+rec.RequestKey, data, ttl).SetVal("OK")

		if err := NewRedisAnalysisCache(client, ttl).StoreAnalysis(context.Background(), rec.RequestKey, rec); err != nil {
			t.Fatal(err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Error(err)
		}
	})
}
