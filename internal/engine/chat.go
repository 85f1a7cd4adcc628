package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"zootopia/internal/apperrors"
	"zootopia/internal/catalog"
	"zootopia/internal/mood"
	"zootopia/internal/storage"
)

const DefaultHistoryLimit = 50

type ChatReply struct {
	Text string
	// Fallback is set when Text is a canned line because the completion
	// service could not answer.
	Fallback     bool
	SuggestsTask bool
}

// Chat sends message to an owned companion and records both sides of the
// exchange in its transcript. The user entry is written before the completion
// call and stays in the transcript when storing the reply fails; the error is
// then returned and the reply is dropped.
func (s *Service) Chat(ctx context.Context, t catalog.CompanionType, message string) (*ChatReply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, apperrors.ValidationError{Field: "message", Reason: "is required"}
	}
	def, err := parseCompanion(t)
	if err != nil {
		return nil, err
	}
	a, err := s.ownedAnimal(ctx, def.Type)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, NotOwnedError{Companion: def.Type}
	}

	if err := s.appendChat(ctx, a, storage.SenderUser, message); err != nil {
		return nil, err
	}

	reply := &ChatReply{}
	text, err := s.complete(ctx, def, message)
	if err != nil {
		s.logger.Warn("chat completion failed, using fallback line", zap.String("companion", string(def.Type)), zap.Error(err))
		text = s.pick(fallbackLines)
		reply.Fallback = true
	}
	reply.Text = text
	reply.SuggestsTask = !reply.Fallback && ContainsTaskSuggestion(text)

	if err := s.appendChat(ctx, a, storage.SenderCompanion, text); err != nil {
		return nil, err
	}
	return reply, nil
}

func (s *Service) complete(ctx context.Context, def catalog.CompanionDef, message string) (string, error) {
	cfg, err := s.APIConfig(ctx)
	if err != nil {
		return "", err
	}
	if cfg == nil {
		return "", fmt.Errorf("no api config saved: %w", apperrors.ErrServiceUnavailable)
	}
	c, err := s.llm.ForConfig(*cfg)
	if err != nil {
		return "", err
	}
	return c.Complete(ctx, SystemPrompt(def), message)
}

func (s *Service) appendChat(ctx context.Context, a *storage.Animal, from storage.Sender, msg string) error {
	_, err := s.store.AppendChatEntry(ctx, storage.ChatEntry{
		OwnerID:  a.OwnerID,
		AnimalID: a.ID,
		Sender:   from,
		Message:  msg,
	})
	return translate("append chat", err)
}

// SystemPrompt is the persona prompt sent ahead of every chat message.
func SystemPrompt(def catalog.CompanionDef) string {
	return fmt.Sprintf(systemPromptTemplate, def.Name, def.Personality)
}

// ChatHistory returns the latest limit transcript entries for an owned
// companion, oldest first. A non-positive limit means DefaultHistoryLimit.
func (s *Service) ChatHistory(ctx context.Context, t catalog.CompanionType, limit int) ([]storage.ChatEntry, error) {
	def, err := parseCompanion(t)
	if err != nil {
		return nil, err
	}
	a, err := s.ownedAnimal(ctx, def.Type)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, NotOwnedError{Companion: def.Type}
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	entries, err := s.store.ListChatHistory(ctx, a.ID, limit)
	if err != nil {
		return nil, translate("chat history", err)
	}
	return entries, nil
}

func (s *Service) ReflectionPrompt() string { return s.pick(reflectionPrompts) }

func (s *Service) ReflectionReply() string { return s.pick(reflectionReplies) }

// ContainsTaskSuggestion reports whether a reply reads like it proposes a task.
func ContainsTaskSuggestion(text string) bool {
	return containsAny(text, taskIndicators)
}

type GeneralReply struct {
	Detected catalog.CompanionType
	// Unlock is set only when the message unlocked a new companion.
	Unlock *UnlockResult
	Text   string
}

// GeneralChat answers a message not addressed to a specific companion. A
// companion mentioned in the text is unlocked and answers in its own voice.
func (s *Service) GeneralChat(ctx context.Context, text string) (*GeneralReply, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.ValidationError{Field: "message", Reason: "is required"}
	}
	t, ok := mood.DetectCompanion(text)
	if !ok {
		return &GeneralReply{Text: s.pick(genericReplies)}, nil
	}

	res, err := s.UnlockCompanion(ctx, t)
	if err != nil {
		return nil, err
	}
	reply := &GeneralReply{Detected: t, Text: companionFallbackLine}
	if res.Status == UnlockNew {
		reply.Unlock = res
	}
	if def, _ := catalog.Companion(t); len(def.DialogLines) > 0 {
		reply.Text = s.pick(def.DialogLines)
	}
	return reply, nil
}

// APIConfig returns the saved completion settings, falling back to the
// configured defaults. Nil means chat will use fallback lines.
func (s *Service) APIConfig(ctx context.Context) (*storage.APIConfig, error) {
	owner, err := s.OwnerID(ctx)
	if err != nil {
		return nil, err
	}
	cfg, err := s.store.GetAPIConfig(ctx, owner)
	if err != nil {
		return nil, translate("get api config", err)
	}
	if cfg == nil && s.seedAPI != nil {
		seed := *s.seedAPI
		return &seed, nil
	}
	return cfg, nil
}

// SaveAPIConfig stores completion settings. committed is true whenever the
// local copy was written, including when err is a *apperrors.PartialFailure.
func (s *Service) SaveAPIConfig(ctx context.Context, c storage.APIConfig) (committed bool, err error) {
	c, err = normalizeAPIConfig(c)
	if err != nil {
		return false, err
	}

	owner, err := s.OwnerID(ctx)
	if err != nil {
		return false, err
	}
	err = s.store.SaveAPIConfig(ctx, owner, c)
	if err == nil {
		return true, nil
	}
	var pf *apperrors.PartialFailure
	if errors.As(err, &pf) {
		return true, err
	}
	return false, translate("save api config", err)
}

func normalizeAPIConfig(c storage.APIConfig) (storage.APIConfig, error) {
	c.EndpointURL = strings.TrimSpace(c.EndpointURL)
	c.APIKey = strings.TrimSpace(c.APIKey)
	c.ModelName = strings.TrimSpace(c.ModelName)
	switch {
	case c.EndpointURL == "":
		return c, apperrors.ValidationError{Field: "endpoint", Reason: "is required"}
	case c.APIKey == "":
		return c, apperrors.ValidationError{Field: "api key", Reason: "is required"}
	case c.ModelName == "":
		return c, apperrors.ValidationError{Field: "model", Reason: "is required"}
	}
	return c, nil
}

// TestAPIConfig sends one short completion with c and saves nothing. Any
// failure to reach the service is an ErrServiceUnavailable.
func (s *Service) TestAPIConfig(ctx context.Context, c storage.APIConfig) error {
	c, err := normalizeAPIConfig(c)
	if err != nil {
		return err
	}
	client, err := s.llm.ForConfig(c)
	if err == nil {
		_, err = client.Complete(ctx, connectionTestPrompt, connectionTestMessage)
	}
	if err != nil {
		s.logger.Warn("api connection test failed", zap.String("endpoint", c.EndpointURL), zap.Error(err))
		if errors.Is(err, apperrors.ErrServiceUnavailable) {
			return fmt.Errorf("api connection test: %w", err)
		}
		return fmt.Errorf("api connection test: %w: %w", apperrors.ErrServiceUnavailable, err)
	}
	s.logger.Info("api connection test passed", zap.String("endpoint", c.EndpointURL), zap.String("model", c.ModelName))
	return nil
}
