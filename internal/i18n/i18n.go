// Package i18n provides the static Hebrew translation table for the UI.
package i18n

import "strings"

// translations maps message keys to Hebrew display text. Placeholders use
// the {name} form and are substituted by Tf.
var translations = map[string]string{
	"app_title":          "המתכונים שלי",
	"add_recipe":         "הוספת מתכון",
	"my_recipes":         "המתכונים שלי",
	"search_recipes":     "חיפוש מתכונים",
	"add_from_url":       "מקישור אינטרנט",
	"add_from_image":     "מתמונה",
	"enter_url":          "הכניסי קישור (URL) למתכון:",
	"extract_recipe":     "חלצי מתכון",
	"upload_image":       "העלי תמונת מתכון:",
	"extract_from_image": "חלצי מתכון מתמונה",
	"recipe_preview":     "תצוגה מקדימה של המתכון:",
	"save_recipe":        "שמרי מתכון",
	"recipe_saved":       "המתכון נשמר בהצלחה!",
	"extraction_failed":  "חילוץ המתכון נכשל. בדקי את המקור או נסי שוב.",
	"recipe_collection":  "אוסף המתכונים שלי",
	"refresh_recipes":    "רענני רשימה",
	"no_recipes":         "עדיין לא שמרת מתכונים.",
	"you_have":           "יש לך",
	"saved_recipes":      "מתכונים שמורים.",
	"filter_recipes":     "סינון מתכונים",
	"cuisine":            "מטבח",
	"meal_type":          "סוג ארוחה",
	"all":                "הכל",
	"search_placeholder": "הקלידי מילות חיפוש (למשל: 'עוגת שוקולד קלה')...",
	"searching":          "מחפשת...",
	"found":              "נמצאו",
	"matching_recipes":   "מתכונים תואמים.",
	"no_matches":         "לא נמצאו מתכונים תואמים לשאילתה שלך.",
	"ingredients":        "מצרכים",
	"instructions":       "הוראות הכנה",
	"tags":               "תגיות",
	"prep_time":          "זמן הכנה",
	"cook_time":          "זמן בישול",
	"total_time":         "זמן כולל",
	"serves":             "מספר מנות",
	"view_original":      "צפי במתכון המקורי",
	"processing":         "מעבדת...",
	"recipe_extracted":   "המתכון חולץ בהצלחה! בדקי את התצוגה המקדימה ולחצי 'שמרי'.",
	"error_extract_url":  "שגיאה בחילוץ המתכון מהקישור",
	"error_extract_image": "שגיאה בחילוץ המתכון מהתמונה",
	"error_save":          "שגיאה בשמירת המתכון",
	"error_search":        "שגיאה בחיפוש",
	"error_fetch":         "שגיאה בטעינת המתכונים",
	"delete_recipe":       "מחקי מתכון",
	"confirm_delete":      "האם את בטוחה שברצונך למחוק את המתכון '{title}'?",
	"recipe_deleted":      "המתכון '{title}' נמחק בהצלחה!",
	"error_delete":        "שגיאה במחיקת המתכון",
	"sort_by":             "מייני לפי",
	"newest_first":        "החדש ביותר",
	"oldest_first":        "הישן ביותר",
	"title_az":            "שם (א-ת)",
	"enter_url_warning":   "אנא הכניסי קישור למתכון.",
	"img_upload_error":    "שגיאה בעיבוד התמונה:",
	"search_prompt":       "הקלידי מונח חיפוש כדי למצוא מתכונים.",
	"filter_no_results":   "לא נמצאו מתכונים התואמים לסינון.",
	"manual_img_upload":   "לא הצלחנו למצוא תמונה למתכון זה באופן אוטומטי. האם תרצי להוסיף תמונה בעצמך?",
	"upload_img_recipe":   "העלאת תמונה למתכון",
	"img_upload_success":  "התמונה הועלתה בהצלחה!",
	"yes_delete":          "כן, מחקי",
	"cancel":              "ביטול",
}

// T returns the Hebrew translation for key, or the key itself when unknown.
func T(key string) string {
	if v, ok := translations[key]; ok {
		return v
	}
	return key
}

// Tf returns the translation with {name} placeholders substituted from pairs
// of (name, value) arguments. Unknown placeholders are left untouched.
func Tf(key string, pairs ...string) string {
	s := T(key)
	for i := 0; i+1 < len(pairs); i += 2 {
		s = strings.ReplaceAll(s, "{"+pairs[i]+"}", pairs[i+1])
	}
	return s
}
