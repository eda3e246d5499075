package services

import (
	"fmt"
	"sort"
	"strings"

	"finmemory/internal/models"
)

const (
	maxPromptAlerts         = 5
	maxPromptCategoryTrends = 5
)

// promptInstructionBlock is the fixed system instruction that opens every
// advisor prompt. It is kept in Russian verbatim because the assistant is
// expected to reply in Russian with the exact sections the parser knows.
const promptInstructionBlock = `Ты — независимый и честный AI-финансовый ассистент с задачей давать только глубокие, краткие, explainable и action-oriented советы.

У тебя на руках агрегированная таблица и summary по всем месяцам (минимум 3 месяца, см. ниже).

КРИТИЧЕСКИ ВАЖНЫЕ ПРАВИЛА:

1. ВСЕГДА анализируй минимум 3 месяца данных — ищи тренды, паттерны, сезонность, отклонения.

2. Формируй markdown-анализ ТОЛЬКО по ключевым изменениям и причинам:
   - НЕ просто "траты возросли"
   - А: "траты возросли на 27% из-за категории 'маркетинг' (было 15k, стало 19k) — вероятная причина: запуск новой рекламной кампании. Что делать: проверить ROI кампании, оптимизировать бюджет на 10-15%. Как избежать: установить лимиты на категорию, еженедельный мониторинг."

3. Ранжируй советы по приоритетам:
   - 🚨 СРОЧНО (требует немедленных действий)
   - ⚡ QUICK WIN (быстрые результаты, минимум усилий)
   - 📅 ДОЛГОСРОЧНО (стратегические рекомендации)
   - ✅ НА ИСПОЛНЕНИЕ (конкретные шаги)

4. При острых местах (аномальный рост расходов >50%, падение доходов >30%, отрицательный баланс) автоматически создавай ALERT:
   "🚩 ALERT! [описание проблемы]"

5. Структурируй actionable советы по тегам:
   - 🔥 Что делать СЕЙЧАС (в течение недели)
   - 📆 Что можно сделать в ЭТОМ МЕСЯЦЕ
   - 🔮 Что посмотреть на БУДУЩЕЕ (следующие 3-6 месяцев)

6. Используй ВЕСЬ имеющийся контекст:
   - История предыдущих сообщений
   - Markdown-таблица со всеми месяцами
   - Summary по ключевым месяцам
   - Выявленные аномалии и тренды

ОБЯЗАТЕЛЬНЫЙ ФОРМАТ ВЫВОДА:

🚦 Краткий аналитический вывод
[1-2 предложения с ключевыми находками]

🚩 ВЫЯВЛЕННЫЕ РИСКИ
[Список рисков с конкретными цифрами и причинами. Если нет критических — "Критических рисков не обнаружено."]

🛠 Action-пункты

🔥 Что делать СЕЙЧАС:
1. [конкретный совет с цифрами и шагами]
2. ...

📆 Что можно сделать в ЭТОМ МЕСЯЦЕ:
1. [конкретный совет]
2. ...

🔮 Что посмотреть на БУДУЩЕЕ:
1. [стратегическая рекомендация]
2. ...

📈 Долгосрочный прогноз
[Прогноз на основе трендов, если данных достаточно]

📊 Сравнительная таблица
[Если уместно — таблица сравнения периодов/категорий]

🤝 Кейс/practice из жизни
[Опционально: пример из best practices, если уместно]

СТРОГО ЗАПРЕЩЕНО:
- "Лить воду" — только конкретика, цифры, действия
- Игнорировать summary и context — всегда используй всю таблицу
- Давать "советы ради советов" — только если есть реальная проблема или возможность
- Пересказывать сумму расходов/доходов без анализа — только выводы и сравнения
- Отвечать общими словами — только по теме и по цифрам

Если данных недостаточно (меньше 3 месяцев) — явно укажи это и дай рекомендации с учетом ограниченности данных.`

const (
	emptyTableFallback   = "| Месяц | Доходы | Расходы | Катег. доход | Катег. расход | Транзакций |\n|---|---|---|---|---|---|\n| — | 0 | 0 | — | — | 0 |"
	emptySummaryFallback = "Нет сводки"
)

type promptBuilder struct{}

// NewPromptBuilder creates a new PromptBuilderInterface instance
func NewPromptBuilder() PromptBuilderInterface {
	return &promptBuilder{}
}

// BuildSystemPrompt assembles the full advisor prompt: the instruction
// block, the historical table, the summary, the trend block and up to five
// alerts, followed by optional extra context supplied by the caller.
func (p *promptBuilder) BuildSystemPrompt(memory *models.FinancialMemory, extraContext string) string {
	table := emptyTableFallback
	summary := emptySummaryFallback
	var alerts []models.Alert
	var trends *models.TrendSummary

	if memory != nil {
		if memory.TableMarkdown != "" {
			table = memory.TableMarkdown
		}
		if memory.SummaryText != "" {
			summary = memory.SummaryText
		}
		alerts = memory.Alerts
		trends = memory.Trends
	}

	var b strings.Builder
	b.WriteString(promptInstructionBlock)
	b.WriteString("\n\n### Историческая таблица (все месяцы)\n")
	b.WriteString(table)
	b.WriteString("\n\n### Краткое summary\n")
	b.WriteString(summary)
	b.WriteString(trendsBlock(trends))
	b.WriteString(alertsBlock(alerts))

	if extra := strings.TrimSpace(extraContext); extra != "" {
		b.WriteString("\n\n### Дополнительный контекст\n")
		b.WriteString(extra)
	}

	return b.String()
}

func trendsBlock(trends *models.TrendSummary) string {
	if trends == nil || !trends.HasEnoughData {
		message := "Для качественного анализа требуется минимум 3 месяца данных."
		if trends != nil && trends.Message != "" {
			message = trends.Message
		}
		return "\n\n### ⚠️ Внимание: недостаточно данных\n" + message
	}

	lines := []string{fmt.Sprintf("Доступно месяцев данных: %d", trends.MonthsAvailable)}

	if len(trends.CategoryTrends) > 0 {
		lines = append(lines, "\nТренды по категориям расходов:")
		categories := make([]string, 0, len(trends.CategoryTrends))
		for category := range trends.CategoryTrends {
			categories = append(categories, category)
		}
		sort.Strings(categories)
		if len(categories) > maxPromptCategoryTrends {
			categories = categories[:maxPromptCategoryTrends]
		}
		for _, category := range categories {
			trend := trends.CategoryTrends[category]
			lines = append(lines, fmt.Sprintf("- %s: %s %s (%+.1f%%), среднее: %s",
				category, trendEmoji(trend.Trend), trend.Trend, trend.ChangePct, formatCurrency(trend.Average)))
		}
	}

	return "\n\n### Анализ трендов (последние 3+ месяца)\n" + strings.Join(lines, "\n")
}

func alertsBlock(alerts []models.Alert) string {
	if len(alerts) == 0 {
		return ""
	}

	critical := make([]models.Alert, 0, len(alerts))
	for _, alert := range alerts {
		if alert.Severity == models.SeverityCritical || alert.Severity == models.SeverityHigh {
			critical = append(critical, alert)
		}
	}

	heading := "### Ранние оповещения"
	selected := alerts
	if len(critical) > 0 {
		heading = "### 🚩 КРИТИЧЕСКИЕ ОПОВЕЩЕНИЯ (ALERT)"
		selected = critical
	}
	if len(selected) > maxPromptAlerts {
		selected = selected[:maxPromptAlerts]
	}

	lines := make([]string, 0, len(selected))
	for _, alert := range selected {
		lines = append(lines, "- "+alert.Message)
	}
	return "\n\n" + heading + "\n" + strings.Join(lines, "\n")
}

func trendEmoji(trend string) string {
	switch trend {
	case models.TrendGrowth:
		return "📈"
	case models.TrendDecline:
		return "📉"
	default:
		return "➡️"
	}
}
