// Package redis stores student records in Redis.
//
// Layout under the configured prefix:
//
//	<prefix>next_id      INCR counter handing out ids
//	<prefix>ids          sorted set of live ids (score = id)
//	<prefix>student:<id> JSON encoded types.Student
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/aanand-mishra/students-advice-api/internal/config"
	"github.com/aanand-mishra/students-advice-api/internal/storage"
	"github.com/aanand-mishra/students-advice-api/internal/types"
)

// maxTxAttempts bounds optimistic transaction retries when a watched key
// changes underneath us.
const maxTxAttempts = 5

// Redis implements storage.Storage.
type Redis struct {
	rdb    *goredis.Client
	prefix string
}

// New connects to Redis and checks the connection with a Ping.
func New(cfg config.Storage) (*Redis, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis.New: ping %s: %w", cfg.RedisAddr, err)
	}

	return NewWithClient(rdb, cfg.RedisPrefix), nil
}

// NewWithClient wraps an existing client. The store takes ownership and
// closes it in Close.
func NewWithClient(rdb *goredis.Client, prefix string) *Redis {
	if prefix == "" {
		prefix = "students:"
	}
	return &Redis{rdb: rdb, prefix: prefix}
}

func (r *Redis) nextIDKey() string { return r.prefix + "next_id" }
func (r *Redis) idsKey() string    { return r.prefix + "ids" }

func (r *Redis) studentKey(id int64) string {
	return r.prefix + "student:" + strconv.FormatInt(id, 10)
}

func (r *Redis) CreateStudent(ctx context.Context, student types.Student) (types.Student, error) {
	id, err := r.rdb.Incr(ctx, r.nextIDKey()).Result()
	if err != nil {
		return types.Student{}, fmt.Errorf("CreateStudent: incr: %w", err)
	}
	student.ID = id

	data, err := json.Marshal(student)
	if err != nil {
		return types.Student{}, fmt.Errorf("CreateStudent: marshal: %w", err)
	}

	_, err = r.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Set(ctx, r.studentKey(id), data, 0)
		pipe.ZAdd(ctx, r.idsKey(), goredis.Z{Score: float64(id), Member: id})
		return nil
	})
	if err != nil {
		return types.Student{}, fmt.Errorf("CreateStudent: write: %w", err)
	}

	return student, nil
}

type getter interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
}

func (r *Redis) load(ctx context.Context, g getter, id int64) (types.Student, error) {
	data, err := g.Get(ctx, r.studentKey(id)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return types.Student{}, storage.ErrNotFound
	}
	if err != nil {
		return types.Student{}, fmt.Errorf("get student %d: %w", id, err)
	}

	var student types.Student
	if err := json.Unmarshal(data, &student); err != nil {
		return types.Student{}, fmt.Errorf("decode student %d: %w", id, err)
	}
	return student, nil
}

func (r *Redis) GetStudentByID(ctx context.Context, id int64) (types.Student, error) {
	return r.load(ctx, r.rdb, id)
}

func (r *Redis) GetStudents(ctx context.Context) ([]types.Student, error) {
	ids, err := r.rdb.ZRange(ctx, r.idsKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("GetStudents: zrange: %w", err)
	}

	students := make([]types.Student, 0, len(ids))
	if len(ids) == 0 {
		return students, nil
	}

	keys := make([]string, len(ids))
	for i, raw := range ids {
		keys[i] = r.prefix + "student:" + raw
	}

	values, err := r.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("GetStudents: mget: %w", err)
	}

	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			// deleted between ZRANGE and MGET
			continue
		}
		var student types.Student
		if err := json.Unmarshal([]byte(s), &student); err != nil {
			return nil, fmt.Errorf("GetStudents: decode %s: %w", keys[i], err)
		}
		students = append(students, student)
	}

	return students, nil
}

// modify runs a WATCH/MULTI read-modify-write on one record.
func (r *Redis) modify(ctx context.Context, id int64, fn func(*types.Student)) (types.Student, error) {
	key := r.studentKey(id)
	var result types.Student

	txf := func(tx *goredis.Tx) error {
		student, err := r.load(ctx, tx, id)
		if err != nil {
			return err
		}
		fn(&student)

		data, err := json.Marshal(student)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			return nil
		})
		if err == nil {
			result = student
		}
		return err
	}

	for attempt := 0; attempt < maxTxAttempts; attempt++ {
		err := r.rdb.Watch(ctx, txf, key)
		if errors.Is(err, goredis.TxFailedErr) {
			continue
		}
		if err != nil {
			return types.Student{}, err
		}
		return result, nil
	}

	return types.Student{}, fmt.Errorf("update student %d: %w", id, goredis.TxFailedErr)
}

func (r *Redis) UpdateStudentByID(ctx context.Context, id int64, patch types.StudentPatch) (types.Student, error) {
	return r.modify(ctx, id, patch.Apply)
}

func (r *Redis) SetAdvice(ctx context.Context, id int64, advice string) (types.Student, error) {
	return r.modify(ctx, id, func(s *types.Student) { s.Advice = advice })
}

func (r *Redis) DeleteStudentByID(ctx context.Context, id int64) error {
	var del *goredis.IntCmd
	_, err := r.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		del = pipe.Del(ctx, r.studentKey(id))
		pipe.ZRem(ctx, r.idsKey(), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("DeleteStudentByID: %w", err)
	}
	if del.Val() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (r *Redis) Close() error {
	return r.rdb.Close()
}
