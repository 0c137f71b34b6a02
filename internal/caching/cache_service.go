package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"pressroom/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type CacheService interface {
	// Built-tree caching
	GetMenuTree(ctx context.Context, menuID uuid.UUID) ([]*models.MenuItem, error)
	SetMenuTree(ctx context.Context, menuID uuid.UUID, roots []*models.MenuItem, ttl time.Duration) error
	DeleteMenuTree(ctx context.Context, menuID uuid.UUID) error

	GetTermTree(ctx context.Context, vocabularyID uuid.UUID) ([]*models.Term, error)
	SetTermTree(ctx context.Context, vocabularyID uuid.UUID, roots []*models.Term, ttl time.Duration) error
	DeleteTermTree(ctx context.Context, vocabularyID uuid.UUID) error

	// Generic string operations for token management
	SetString(ctx context.Context, key string, value string, ttl time.Duration) error
	GetString(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error

	Ping(ctx context.Context) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	// Accept redis://host:port URLs as well as bare host:port
	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		if hostPort := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://"); hostPort != addr {
			parsedAddr = hostPort
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Printf("WARN: Redis ping failed on initialization: %v (address: %s)", pingErr, parsedAddr)
	}

	return &redisCacheService{client: client}
}

func (r *redisCacheService) GetMenuTree(ctx context.Context, menuID uuid.UUID) ([]*models.MenuItem, error) {
	key := fmt.Sprintf("pressroom:menutree:%s", menuID.String())
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var roots []*models.MenuItem
	if err := json.Unmarshal(data, &roots); err != nil {
		return nil, err
	}
	return roots, nil
}

func (r *redisCacheService) SetMenuTree(ctx context.Context, menuID uuid.UUID, roots []*models.MenuItem, ttl time.Duration) error {
	key := fmt.Sprintf("pressroom:menutree:%s", menuID.String())
	data, err := json.Marshal(roots)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) DeleteMenuTree(ctx context.Context, menuID uuid.UUID) error {
	key := fmt.Sprintf("pressroom:menutree:%s", menuID.String())
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) GetTermTree(ctx context.Context, vocabularyID uuid.UUID) ([]*models.Term, error) {
	key := fmt.Sprintf("pressroom:termtree:%s", vocabularyID.String())
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var roots []*models.Term
	if err := json.Unmarshal(data, &roots); err != nil {
		return nil, err
	}
	return roots, nil
}

func (r *redisCacheService) SetTermTree(ctx context.Context, vocabularyID uuid.UUID, roots []*models.Term, ttl time.Duration) error {
	key := fmt.Sprintf("pressroom:termtree:%s", vocabularyID.String())
	data, err := json.Marshal(roots)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) DeleteTermTree(ctx context.Context, vocabularyID uuid.UUID) error {
	key := fmt.Sprintf("pressroom:termtree:%s", vocabularyID.String())
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *redisCacheService) GetString(ctx context.Context, key string) (string, error) {
	value, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", fmt.Errorf("key not found: %s", key)
	}
	return value, err
}

func (r *redisCacheService) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
