package pipeline

import (
	"context"
	"fmt"

	"github.com/inboundflow/courier/internal/capabilities"
	"github.com/inboundflow/courier/internal/sessions"
)

// stageFunc resolves a planned stage name to its implementation.
func (o *Orchestrator) stageFunc(stage string, sess *sessions.Session, st *runState) func(context.Context) (any, error) {
	return func(ctx context.Context) (any, error) {
		switch stage {
		case StageQueryGeneration:
			return o.composeQuery(ctx, sess, st)
		case StageRetrieve:
			return o.retrieveThreads(ctx, st)
		case StageExtract:
			return o.extractContext(ctx, sess, st)
		case StageDraftGeneration:
			return o.draft(ctx, sess, st)
		case StageRejectionAnalysis:
			return o.analyzeRejection(ctx, sess, st)
		case StageRejectionDraft:
			return o.draftRejection(ctx, sess, st)
		case StageDraftEditing:
			return o.edit(ctx, sess, st)
		case StageNotification:
			return o.notify(ctx, sess, st)
		default:
			return nil, Permanent(fmt.Errorf("unknown stage %q", stage))
		}
	}
}

func (o *Orchestrator) classify(ctx context.Context, sess *sessions.Session, st *runState) (any, error) {
	result, err := retry(ctx, o.cfg.RetryAttempts, o.cfg.RetryBaseDelay, func(ctx context.Context) (capabilities.Classification, error) {
		return o.classifier.Classify(ctx, sess.Subject, sess.Body)
	})
	if err != nil {
		return nil, err
	}

	st.label = result.Label
	st.confidence = result.Confidence

	if err := o.sessions.SetLabel(ctx, sess.ID, result.Label); err != nil {
		return nil, err
	}

	return classifyResult{Label: result.Label, Confidence: result.Confidence}, nil
}

func (o *Orchestrator) composeQuery(ctx context.Context, sess *sessions.Session, st *runState) (any, error) {
	query, err := retry(ctx, o.cfg.RetryAttempts, o.cfg.RetryBaseDelay, func(ctx context.Context) (string, error) {
		return o.generator.ComposeQuery(ctx, sess.Body)
	})
	if err != nil {
		return nil, err
	}

	st.query = query
	return queryResult{Query: query}, nil
}

func (o *Orchestrator) retrieveThreads(ctx context.Context, st *runState) (any, error) {
	threads, err := retry(ctx, o.cfg.RetryAttempts, o.cfg.RetryBaseDelay, func(ctx context.Context) ([]string, error) {
		return o.retriever.Threads(ctx, st.query)
	})
	if err != nil {
		return nil, err
	}

	st.threads = threads
	return retrieveResult{Threads: threads}, nil
}

func (o *Orchestrator) extractContext(ctx context.Context, sess *sessions.Session, st *runState) (any, error) {
	result, err := retry(ctx, o.cfg.RetryAttempts, o.cfg.RetryBaseDelay, func(ctx context.Context) (capabilities.ContextResult, error) {
		return o.retriever.FindContext(ctx, sess.SenderEmail, st.label)
	})
	if err != nil {
		return nil, err
	}

	st.doc = extractResult{Matched: result.Matched, Content: result.Content, Ref: result.Ref}
	return st.doc, nil
}

func (o *Orchestrator) draft(ctx context.Context, sess *sessions.Session, st *runState) (any, error) {
	dc := capabilities.DraftContext{
		SenderName:  sess.SenderName,
		SenderEmail: sess.SenderEmail,
		Subject:     sess.Subject,
		Body:        sess.Body,
		Label:       st.label,
		Threads:     st.threads,
		DocContext:  st.doc.Content,
	}

	text, err := retry(ctx, o.cfg.RetryAttempts, o.cfg.RetryBaseDelay, func(ctx context.Context) (string, error) {
		return o.generator.Draft(ctx, dc)
	})
	if err != nil {
		return nil, err
	}

	st.draft = text
	return draftResult{Draft: text}, nil
}

func (o *Orchestrator) analyzeRejection(ctx context.Context, sess *sessions.Session, st *runState) (any, error) {
	strategy, err := retry(ctx, o.cfg.RetryAttempts, o.cfg.RetryBaseDelay, func(ctx context.Context) (capabilities.RejectionStrategy, error) {
		return o.generator.AnalyzeRejection(ctx, sess.Body)
	})
	if err != nil {
		return nil, err
	}

	st.strategy = strategyResult{Kind: strategy.Kind, Angles: strategy.Angles}
	return st.strategy, nil
}

func (o *Orchestrator) draftRejection(ctx context.Context, sess *sessions.Session, st *runState) (any, error) {
	rc := capabilities.RejectionDraftContext{
		Body:  sess.Body,
		Label: st.label,
		Strategy: capabilities.RejectionStrategy{
			Kind:   st.strategy.Kind,
			Angles: st.strategy.Angles,
		},
		DocContext: st.doc.Content,
	}

	text, err := retry(ctx, o.cfg.RetryAttempts, o.cfg.RetryBaseDelay, func(ctx context.Context) (string, error) {
		return o.generator.DraftRejection(ctx, rc)
	})
	if err != nil {
		return nil, err
	}

	st.draft = text
	return draftResult{Draft: text}, nil
}

func (o *Orchestrator) edit(ctx context.Context, sess *sessions.Session, st *runState) (any, error) {
	if st.draft == "" {
		return nil, Permanent(ErrNoDraft)
	}

	text, err := retry(ctx, o.cfg.RetryAttempts, o.cfg.RetryBaseDelay, func(ctx context.Context) (string, error) {
		return o.generator.Edit(ctx, sess.Body, st.draft)
	})
	if err != nil {
		return nil, err
	}

	st.edited = text
	return draftResult{Draft: text}, nil
}

func (o *Orchestrator) notify(ctx context.Context, sess *sessions.Session, st *runState) (any, error) {
	summary, err := retry(ctx, o.cfg.RetryAttempts, o.cfg.RetryBaseDelay, func(ctx context.Context) (string, error) {
		return o.generator.Summarize(ctx, sess.Body)
	})
	if err != nil {
		return nil, err
	}

	req := capabilities.ReviewRequest{
		SessionID:   sess.ID,
		SenderEmail: sess.SenderEmail,
		Subject:     sess.Subject,
		Label:       st.label,
		Summary:     summary,
		Draft:       st.edited,
	}

	ref, err := retry(ctx, o.cfg.RetryAttempts, o.cfg.RetryBaseDelay, func(ctx context.Context) (string, error) {
		return o.notifier.Notify(ctx, req)
	})
	if err != nil {
		return nil, err
	}

	return notifyResult{Summary: summary, Ref: ref}, nil
}
