package search

import (
	"strconv"
	"strings"

	"github.com/arnabdutta04/estate-backend/internal/apperr"
)

const (
	DefaultLimit = 12
	MaxLimit     = 100
)

// facilityColumns — закрытый список удобств: имя параметра → колонка.
// Неизвестное имя молча игнорируется.
var facilityColumns = map[string]string{
	"parkingSlot":    "parking_slot",
	"wifi":           "wifi",
	"security":       "security",
	"kitchen":        "kitchen",
	"ac":             "ac",
	"swimmingPool":   "swimming_pool",
	"gym":            "gym",
	"petAllowed":     "pet_allowed",
	"homeTheater":    "home_theater",
	"spa":            "spa",
	"elevator":       "elevator",
	"conferenceRoom": "conference_room",
	"gatedCommunity": "gated_community",
	"waterSupply":    "water_supply",
	"electricity":    "electricity",
}

// Compile превращает параметры запроса в SearchQuery. Нераспознанные
// параметры игнорируются; некорректные числовые значения — BadRequest.
// min > max — допустимый (пусть и пустой по результату) запрос.
func Compile(params map[string]string, viewer Viewer) (SearchQuery, error) {
	q := SearchQuery{}

	if v := params["propertyType"]; v != "" {
		q.Predicates = append(q.Predicates, equalOrOneOf("property_type", v))
	}
	if v := params["listingType"]; v != "" {
		q.Predicates = append(q.Predicates, equalOrOneOf("listing_type", v))
	}

	// city — подстрока без учёта регистра, чтобы находить по части названия
	if v := params["city"]; v != "" {
		q.Predicates = append(q.Predicates, Predicate{
			Kind:   KindSubstringCI,
			Fields: []string{"city"},
			Value:  v,
		})
	}

	// keyword — подстрока по заголовку ИЛИ описанию
	if v := params["keyword"]; v != "" {
		q.Predicates = append(q.Predicates, Predicate{
			Kind:   KindSubstringCI,
			Fields: []string{"title", "description"},
			Value:  v,
		})
	}

	ranges := []struct {
		param string
		field string
		kind  Kind
	}{
		{"minPrice", "price", KindAtLeast},
		{"maxPrice", "price", KindAtMost},
		{"minArea", "area", KindAtLeast},
		{"maxArea", "area", KindAtMost},
		{"bedrooms", "bedrooms", KindAtLeast},
		{"bathrooms", "bathrooms", KindAtLeast},
	}
	for _, r := range ranges {
		v := params[r.param]
		if v == "" {
			continue
		}
		n, err := strconv.ParseFloat(v, 64)
		if err != nil || n < 0 {
			return SearchQuery{}, apperr.BadRequest("Invalid value for " + r.param)
		}
		q.Predicates = append(q.Predicates, Predicate{Kind: r.kind, Field: r.field, Number: n})
	}

	if v := params["facilities"]; v != "" {
		for _, name := range strings.Split(v, ",") {
			col, ok := facilityColumns[strings.TrimSpace(name)]
			if !ok {
				continue
			}
			q.Predicates = append(q.Predicates, Predicate{Kind: KindBoolTrue, Field: col})
		}
	}

	// Статус всегда прижат к active, кроме админа и брокера в рамках
	// собственных объявлений.
	status := params["status"]
	if status != "" && (viewer.IsAdmin || viewer.BrokerID != "") {
		q.Predicates = append(q.Predicates, equalOrOneOf("status", status))
	} else {
		q.Predicates = append(q.Predicates, Predicate{Kind: KindEqual, Field: "status", Value: "active"})
	}

	if viewer.BrokerID != "" {
		q.Predicates = append(q.Predicates, Predicate{Kind: KindEqual, Field: "broker_id", Value: viewer.BrokerID})
	}

	q.Page = parsePage(params["page"])
	q.Limit = parseLimit(params["limit"])
	q.Offset = (q.Page - 1) * q.Limit

	// Сортировка фиксированная: сначала featured, затем свежие
	q.OrderBy = []Order{
		{Field: "is_featured", Desc: true},
		{Field: "created_at", Desc: true},
	}
	return q, nil
}

// equalOrOneOf: одно значение — равенство, список через запятую — вхождение.
func equalOrOneOf(field, raw string) Predicate {
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			values = append(values, p)
		}
	}
	if len(values) == 1 {
		return Predicate{Kind: KindEqual, Field: field, Value: values[0]}
	}
	return Predicate{Kind: KindOneOf, Field: field, Values: values}
}

func parsePage(s string) int {
	page, err := strconv.Atoi(s)
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func parseLimit(s string) int {
	limit, err := strconv.Atoi(s)
	if err != nil || limit < 1 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}
