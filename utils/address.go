package utils

import (
	"regexp"
	"strconv"
	"strings"
)

// 郵遞區號為連續五位數字
var zipRegex = regexp.MustCompile(`\b\d{5}\b`)

// 郵遞區號數值距離在此範圍內視為鄰近
const zipProximityRange = 5

// SplitAddressIntoTokens 將地址切成詞與連續多詞組合，供模糊比對使用。
// 相同輸入永遠產生相同順序的結果。
func SplitAddressIntoTokens(address string) []string {
	words := strings.Fields(address)

	var tokens []string
	for i := 0; i < len(words); i++ {
		for j := i; j < len(words); j++ {
			token := strings.Join(words[i:j+1], " ")
			// 過短的子字串不具鑑別度
			if len(token) < 3 {
				continue
			}
			tokens = append(tokens, token)
		}
	}
	return tokens
}

// ExtractPostalCode 從自由文字查詢中取出郵遞區號，回傳（剩餘地址, 郵遞區號）。
// 找不到郵遞區號時回傳原字串與空字串，不報錯。
func ExtractPostalCode(query string) (string, string) {
	loc := zipRegex.FindStringIndex(query)
	if loc == nil {
		return strings.TrimSpace(query), ""
	}

	zip := query[loc[0]:loc[1]]
	remainder := query[:loc[0]] + query[loc[1]:]
	return strings.Join(strings.Fields(remainder), " "), zip
}

// ClosePostalCodes 從候選郵遞區號中挑出與任一參考郵遞區號數值距離夠近者。
// 郵遞區號視為近似有序的數值空間，不是真實地理距離。
// 無法解析為數字的郵遞區號一律視為不鄰近。
func ClosePostalCodes(origins, candidates []string) []string {
	originValues := make([]int, 0, len(origins))
	for _, o := range origins {
		v, err := strconv.Atoi(strings.TrimSpace(o))
		if err != nil {
			continue
		}
		originValues = append(originValues, v)
	}

	var close []string
	seen := make(map[string]bool)
	for _, c := range candidates {
		if seen[c] {
			continue
		}
		v, err := strconv.Atoi(strings.TrimSpace(c))
		if err != nil {
			continue
		}
		for _, o := range originValues {
			diff := v - o
			if diff < 0 {
				diff = -diff
			}
			if diff <= zipProximityRange {
				close = append(close, c)
				seen[c] = true
				break
			}
		}
	}
	return close
}
