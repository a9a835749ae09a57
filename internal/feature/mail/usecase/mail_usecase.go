// Package usecase は戦略ダイジェストメールの組み立てと配信を提供します。
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	advisorentity "fx_backend/internal/feature/advisor/domain/entity"
	"fx_backend/internal/feature/mail/domain/entity"
)

// maxNewsHighlights はダイジェスト本文に載せるニュースの上限です。
const maxNewsHighlights = 5

// Transport はメール配信のインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type Transport interface {
	Send(subject, body, recipient string) error
}

// MailUsecase は推奨からダイジェストを組み立てて配信します。
type MailUsecase struct {
	transport Transport
	recipient string
	dryRun    bool
}

// NewMailUsecase はMailUsecaseの新しいインスタンスを生成します。
// dryRun が真の場合、配信は行わずログ出力のみ行います。
func NewMailUsecase(transport Transport, recipient string, dryRun bool) *MailUsecase {
	return &MailUsecase{transport: transport, recipient: recipient, dryRun: dryRun}
}

// Deliver はダイジェストを配信してその結果を返します。
// 宛先やトランスポートが未設定の場合はドライランに退避し、
// 配信エラーも結果として返すだけで呼び出し元には伝播しません。
func (u *MailUsecase) Deliver(ctx context.Context, rec advisorentity.Recommendation) entity.MailResult {
	subject, body := BuildDigest(rec)
	result := entity.MailResult{Recipient: u.recipient, Subject: subject}

	if u.dryRun || u.recipient == "" || u.transport == nil {
		slog.Info("mail dry run", "subject", subject, "recipient", u.recipient)
		result.Status = entity.StatusDryRun
		return result
	}

	if err := u.transport.Send(subject, body, u.recipient); err != nil {
		slog.Error("mail delivery failed", "subject", subject, "recipient", u.recipient, "error", err)
		result.Status = entity.StatusError
		return result
	}

	slog.Info("mail sent", "subject", subject, "recipient", u.recipient)
	result.Status = entity.StatusSent
	return result
}

// Notify はパイプラインの通知段として配信結果をステータスと宛先で返します。
func (u *MailUsecase) Notify(ctx context.Context, rec advisorentity.Recommendation) (string, string) {
	result := u.Deliver(ctx, rec)
	return string(result.Status), result.Recipient
}

// BuildDigest は推奨から件名と本文を組み立てます。
func BuildDigest(rec advisorentity.Recommendation) (subject, body string) {
	subject = fmt.Sprintf("Daily Forex Strategy — %s — %s", rec.Pair, rec.Stance)

	var b strings.Builder
	fmt.Fprintf(&b, "Pair: %s\n", rec.Pair)
	fmt.Fprintf(&b, "Stance: %s\n", rec.Stance)
	fmt.Fprintf(&b, "Confidence: %.2f\n\n", rec.Confidence)
	b.WriteString("Rationale:\n")
	for _, r := range rec.Rationale {
		fmt.Fprintf(&b, "- %s\n", r)
	}

	if len(rec.News) > 0 {
		b.WriteString("\nNews Highlights:\n")
		for i, n := range rec.News {
			if i >= maxNewsHighlights {
				break
			}
			title := n.Title
			if title == "" {
				title = "No title"
			}
			source := n.Source
			if source == "" {
				source = "Unknown"
			}
			fmt.Fprintf(&b, "• %s — %s", title, source)
			if n.URL != "" {
				fmt.Fprintf(&b, " (%s)", n.URL)
			}
			b.WriteString("\n")
		}
	}

	return subject, b.String()
}
