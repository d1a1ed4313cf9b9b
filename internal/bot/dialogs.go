package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Rrens/business-assistant/internal/domain"
	"github.com/rs/zerolog/log"
)

const suggestionLimit = 5

// handleDialog feeds text into the user's active wizard step
func (b *Bot) handleDialog(ctx context.Context, user *domain.User, chatID int64, d Dialog, text string) {
	switch d.Step {
	case stepNiche:
		b.states.Advance(user.ID, stepGoal, "niche", text)
		b.send(chatID, "🎯 Какая цель? (например: привлечь клиентов, увеличить продажи)", nil)

	case stepGoal:
		b.states.Advance(user.ID, stepPlatform, "goal", text)
		b.send(chatID, "📱 Выберите платформу или напишите свою:", platformMenu())

	case stepPlatform:
		b.states.Advance(user.ID, stepCustomRequest, "platform", text)
		b.send(chatID, "💡 Есть особые пожелания?\n(или напишите 'нет')", nil)

	case stepCustomRequest:
		b.states.Clear(user.ID)
		b.generateIdea(ctx, user, chatID, d, text)

	case stepContract, stepAct:
		b.states.Clear(user.ID)
		b.generateDocument(ctx, user, chatID, d.Step, text)

	case stepCheck:
		b.states.Clear(user.ID)
		b.send(chatID, "🔍 Проверяю документ...", nil)
		review, err := b.svc.Documents.CheckDocument(ctx, text)
		if err != nil {
			b.fail(chatID, "check document", err)
			return
		}
		b.send(chatID, renderReview(review), nil)

	case stepUpload:
		b.states.Clear(user.ID)
		b.analyzeText(ctx, user, chatID, "document.txt", text)

	case stepProfileField:
		b.updateField(ctx, user, chatID, d.Data["field"], text)

	case stepQuickSale:
		b.quickSale(ctx, user, chatID, text)

	default:
		log.Warn().Str("step", d.Step).Int64("user_id", user.ID).Msg("Unknown dialog step")
		b.states.Clear(user.ID)
	}
}

func (b *Bot) generateIdea(ctx context.Context, user *domain.User, chatID int64, d Dialog, custom string) {
	req := domain.MarketingRequest{
		Niche:         d.Data["niche"],
		Goal:          d.Data["goal"],
		Platform:      d.Data["platform"],
		CustomRequest: custom,
	}

	b.send(chatID, "⏳ Генерирую идею...", nil)
	idea, err := b.svc.Marketing.GenerateIdea(ctx, user.ID, req)
	if err != nil {
		b.fail(chatID, "generate idea", err)
		return
	}

	reply := renderIdea(idea)
	b.send(chatID, reply, nil)
	b.record(ctx, user.ID,
		fmt.Sprintf("Маркетинговая идея: %s / %s / %s", req.Niche, req.Goal, req.Platform),
		idea.Title+"\n"+idea.Description, domain.CategoryMarketing)
}

func (b *Bot) generateDocument(ctx context.Context, user *domain.User, chatID int64, step, details string) {
	create, label := b.svc.Documents.CreateContract, "Договор"
	if step == stepAct {
		create, label = b.svc.Documents.CreateAct, "Акт"
	}

	b.send(chatID, "⏳ Составляю документ...", nil)
	doc, err := create(ctx, user.ID, details)
	if err != nil {
		b.fail(chatID, "generate document", err)
		return
	}

	b.send(chatID, renderGenerated(doc), nil)
	b.record(ctx, user.ID, label+": "+details, doc.Title+"\n"+doc.Content, domain.CategoryDocuments)
}

// record stores an exchange produced outside the assistant. Failures only get logged.
func (b *Bot) record(ctx context.Context, userID int64, userText, botText, category string) {
	if err := b.svc.Assistant.Record(ctx, userID, userText, botText, category); err != nil {
		log.Warn().Err(err).Int64("user_id", userID).Str("category", category).Msg("Failed to record exchange")
	}
}

func (b *Bot) updateField(ctx context.Context, user *domain.User, chatID int64, field, text string) {
	var patch domain.ProfilePatch

	switch field {
	case fieldName:
		parts := strings.Fields(text)
		if len(parts) < 2 {
			b.send(chatID, "⚠️ Введите имя и фамилию через пробел.", nil)
			return
		}
		first, last := parts[0], strings.Join(parts[1:], " ")
		patch.FirstName, patch.LastName = &first, &last
	case fieldIndustry:
		patch.Industry = &text
	case fieldSize:
		patch.BusinessSize = &text
	case fieldRevenue:
		revenue, err := strconv.Atoi(strings.ReplaceAll(text, " ", ""))
		if err != nil || revenue < 0 {
			b.send(chatID, "⚠️ Введите число, например: 150000", nil)
			return
		}
		patch.MonthlyRevenue = &revenue
	default:
		b.states.Clear(user.ID)
		return
	}

	b.states.Clear(user.ID)
	updated, err := b.svc.Users.UpdateProfile(ctx, user.ID, patch)
	if err != nil {
		b.fail(chatID, "update profile", err)
		return
	}
	b.send(chatID, "✅ Данные обновлены!\n\n"+renderProfile(updated), settingsMenu())
}

// parseQuickSale reads "name quantity [price]". The name may contain spaces;
// the price accepts a decimal comma.
func parseQuickSale(text string) (name string, quantity int, price float64, err error) {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return "", 0, 0, fmt.Errorf("%w: expected name and quantity", domain.ErrValidation)
	}

	last := fields[len(fields)-1]
	if len(fields) >= 3 {
		if q, qerr := strconv.Atoi(fields[len(fields)-2]); qerr == nil {
			p, perr := strconv.ParseFloat(strings.ReplaceAll(last, ",", "."), 64)
			if perr != nil || p < 0 {
				return "", 0, 0, fmt.Errorf("%w: invalid price %q", domain.ErrValidation, last)
			}
			name, quantity, price = strings.Join(fields[:len(fields)-2], " "), q, p
		}
	}
	if name == "" {
		q, qerr := strconv.Atoi(last)
		if qerr != nil {
			return "", 0, 0, fmt.Errorf("%w: invalid quantity %q", domain.ErrValidation, last)
		}
		name, quantity = strings.Join(fields[:len(fields)-1], " "), q
	}

	if quantity <= 0 {
		return "", 0, 0, fmt.Errorf("%w: quantity must be positive", domain.ErrValidation)
	}
	return name, quantity, price, nil
}

func (b *Bot) quickSale(ctx context.Context, user *domain.User, chatID int64, text string) {
	name, quantity, price, err := parseQuickSale(text)
	if err != nil {
		b.send(chatID, "⚠️ Формат: <code>название количество [цена]</code>\nПример: <code>Капучино 2 180</code>", nil)
		return
	}

	product, err := b.svc.Warehouse.GetProductByName(ctx, user.ID, name)
	if errors.Is(err, domain.ErrNotFound) {
		b.suggestProducts(ctx, user, chatID, name)
		return
	}
	if err != nil {
		b.states.Clear(user.ID)
		b.fail(chatID, "find product", err)
		return
	}

	result, err := b.svc.Warehouse.CreateSale(ctx, user.ID, domain.SaleCreate{
		ProductID: product.ID,
		Quantity:  quantity,
		UnitPrice: price,
	})
	if err != nil {
		b.states.Clear(user.ID)
		b.fail(chatID, "create sale", err)
		return
	}

	if result.Success {
		b.states.Clear(user.ID)
	}
	b.send(chatID, esc(result.Message), nil)
}

func (b *Bot) suggestProducts(ctx context.Context, user *domain.User, chatID int64, name string) {
	similar, err := b.svc.Warehouse.SearchProducts(ctx, user.ID, name, suggestionLimit)
	if err != nil || len(similar) == 0 {
		b.send(chatID, "❌ Товар «"+esc(name)+"» не найден. Попробуйте ещё раз или /cancel.", nil)
		return
	}

	var sb strings.Builder
	sb.WriteString("❌ Товар «" + esc(name) + "» не найден. Возможно, вы имели в виду:\n")
	for _, p := range similar {
		fmt.Fprintf(&sb, "• %s (остаток %d)\n", esc(p.Name), p.StockQuantity)
	}
	b.send(chatID, strings.TrimRight(sb.String(), "\n"), nil)
}
