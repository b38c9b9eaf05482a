package llm

import "fmt"

const schemaFields = `{
    "title": "Recipe title (string)",
    "description": "Brief description of the dish (string, optional)",
    "prep_time": "Preparation time (string, e.g., '15 minutes', optional)",
    "cook_time": "Cooking time (string, e.g., '30 minutes', optional)",
    "total_time": "Total time (string, e.g., '45 minutes', optional)",
    "servings": "Number of servings (string or number, optional)",
    "ingredients": ["List of ingredients with quantities (array of strings)"],
    "instructions": ["List of preparation/cooking steps (array of strings)"],
    "cuisine": "Type of cuisine (string, e.g., 'Italian', 'Asian', optional)",
    "meal_type": "Type of meal (string, e.g., 'Breakfast', 'Dinner', 'Dessert', optional)",
    "keywords": ["List of relevant keywords/tags (array of strings, optional)"]`

// pagePrompt asks for a recipe from fetched page markup. The extra image_url
// field is only meaningful for pages, where meta tags can name the hero image.
func pagePrompt(pageURL, pageText string) string {
	return fmt.Sprintf(`Below is the content of the webpage at %s.
This page contains a recipe. Extract the complete recipe details.
Return the result ONLY as a single, valid JSON object with the following fields:
%s,
    "image_url": "URL of the main, featured recipe image (string, optional). Prioritize images specified in meta tags (like og:image) or the primary image clearly associated with the finished dish."
}
If a field is not clearly present on the page, use null or an empty array/string as appropriate.
Focus ONLY on extracting information present on the webpage. Do not add external knowledge.

IMPORTANT for image_url: Identify the primary, featured image representing the final dish. Check for meta tags like 'og:image' or 'twitter:image'. Avoid logos, ingredient photos, user avatars, or advertisement images. If no suitable main image URL is found, return null for the 'image_url' field.

Ensure the output is a single, valid JSON object and nothing else.

PAGE CONTENT:
%s`, pageURL, schemaFields, pageText)
}

// imagePrompt asks for a recipe from an attached photo.
func imagePrompt() string {
	return fmt.Sprintf(`You are an expert recipe analyser. Extract the complete recipe from the provided image.
Return the result ONLY as a valid JSON object with the following fields:
%s
}
If a field is not clearly present in the image, use null or an empty array/string as appropriate for the field type.
Focus ONLY on extracting information present in the image. Do not add external knowledge.
Ensure the output is a single, valid JSON object and nothing else.`, schemaFields)
}
