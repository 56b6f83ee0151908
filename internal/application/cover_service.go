package application

import (
	"log"
	"strings"
	"sync"

	"coveralchemy/internal/domain"
)

// SessionScope は、表紙生成セッションを識別する範囲です
type SessionScope struct {
	GuildID   string
	ChannelID string
	UserID    string
}

// Key は、セッション管理用のキーを返します
func (s SessionScope) Key() string {
	return strings.Join([]string{s.GuildID, s.ChannelID, s.UserID}, "/")
}

// SessionFactory は、スコープに対応する新しいセッションを作成します
type SessionFactory func(scope SessionScope) *CoverSession

// CoverApplicationService は、スコープごとの表紙生成セッションを管理するサービスです
type CoverApplicationService struct {
	factory  SessionFactory
	sessions map[string]*CoverSession
	mutex    sync.RWMutex
}

// NewCoverApplicationService は新しいCoverApplicationServiceインスタンスを作成します
func NewCoverApplicationService(factory SessionFactory) *CoverApplicationService {
	return &CoverApplicationService{
		factory:  factory,
		sessions: make(map[string]*CoverSession),
	}
}

// Session は、スコープのセッションを返します。存在しない場合は作成します
func (s *CoverApplicationService) Session(scope SessionScope) *CoverSession {
	key := scope.Key()

	s.mutex.RLock()
	session, exists := s.sessions[key]
	s.mutex.RUnlock()
	if exists {
		return session
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if session, exists := s.sessions[key]; exists {
		return session
	}

	session = s.factory(scope)
	s.sessions[key] = session
	log.Printf("表紙生成セッションを作成しました: %s", key)

	return session
}

// ExistingSession は、作成済みのセッションのみを返します
func (s *CoverApplicationService) ExistingSession(scope SessionScope) (*CoverSession, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	session, exists := s.sessions[scope.Key()]
	return session, exists
}

// GetSupportedGenres は、サポートされているジャンルのリストを返します
func (s *CoverApplicationService) GetSupportedGenres() []string {
	genres := domain.AllGenres()
	result := make([]string, len(genres))
	for i, genre := range genres {
		result[i] = string(genre)
	}
	return result
}

// GetSupportedStyles は、サポートされているスタイルのリストを返します
func (s *CoverApplicationService) GetSupportedStyles() []string {
	styles := domain.AllStyles()
	result := make([]string, len(styles))
	for i, style := range styles {
		result[i] = string(style)
	}
	return result
}

// GetSupportedModelTiers は、サポートされているモデルティアのリストを返します
func (s *CoverApplicationService) GetSupportedModelTiers() []string {
	tiers := domain.AllModelTiers()
	result := make([]string, len(tiers))
	for i, tier := range tiers {
		result[i] = tier.String()
	}
	return result
}

// GetSupportedImageSizes は、サポートされている画像サイズのリストを返します
func (s *CoverApplicationService) GetSupportedImageSizes() []string {
	sizes := domain.AllImageSizes()
	result := make([]string, len(sizes))
	for i, size := range sizes {
		result[i] = string(size)
	}
	return result
}
