package generation

import (
	"fmt"

	"resumeflow/internal/port"
)

const (
	maxValidationChars = 4000

	recruiterSystemPrompt = "You are an expert HR recruiter with 10+ years of experience in candidate evaluation. Be thorough, fair, and constructive in your assessments."
)

// BuildExtractionPrompt asks for the "## Section" format read by resumeparse.Parse.
func BuildExtractionPrompt(resumeText string) port.CompletionRequest {
	prompt := `Extract ONLY the following information from the resume text provided below:
- Full Name
- Email Address
- Phone Number
- Location (City, State/Country)
- Education (Degree, Institution, Year) - list all
- Work Experience (Company, Position, Duration) - list all
- Skills (Technical and Soft Skills) - list all individual skills separated by commas (e.g., "Python, JavaScript, Leadership")
- Years of Experience - if not explicitly stated, add up all work experience durations or estimate from career progression. Show only the number.

Resume Text:
` + resumeText + `

Return ONLY the extracted information in this exact format, with no additional analysis or commentary:

## Full Name
[Extracted name]

## Email Address
[Extracted email]

## Phone Number
[Extracted phone]

## Location
[Extracted location]

## Education
- [Degree], [Institution], [4-digit Year ONLY like 2020, 2019, etc]
- [Additional education entries]

## Work Experience
- [Company], [Position], [Duration]
- [Additional work experience entries]

## Skills
[List all skills separated by commas, e.g., "Python, JavaScript, Leadership, Project Management"]

## Years of Experience
[Number of years]

IMPORTANT:
- For education year, use ONLY 4-digit years (like 2020, 2019, 2018).
- For skills, list individual skills separated by commas. Each skill should be 1-3 words maximum.
- If a field is not found, write "Not found" for that field only.`

	return port.CompletionRequest{
		Prompt:      prompt,
		Temperature: 0.2,
		MaxTokens:   1000,
	}
}

// BuildScoringPrompt asks for the SCORE / REASONING / STRENGTHS / WEAKNESSES
// format read by scoring.ParseResponse.
func BuildScoringPrompt(jobDescription, candidateSummary string) port.CompletionRequest {
	prompt := fmt.Sprintf(`You are an expert HR recruiter. Analyze the following candidate's resume against the job description and provide a comprehensive scoring.

JOB DESCRIPTION:
%s

CANDIDATE RESUME:
%s

Evaluate the candidate on the following criteria:
1. Technical Skills Match (30%%)
2. Experience Level and Relevance (25%%)
3. Education Background (15%%)
4. Industry Experience (20%%)
5. Overall Fit (10%%)

Provide your response in this EXACT format:

SCORE: [0-100]

REASONING:
[2-3 sentences explaining the overall assessment]

STRENGTHS:
- [Strength 1]
- [Strength 2]
- [Strength 3]

WEAKNESSES:
- [Weakness 1]
- [Weakness 2]
- [Weakness 3]

Be specific and constructive in your feedback. Consider both hard skills and soft skills mentioned in the job description.`, jobDescription, candidateSummary)

	return port.CompletionRequest{
		System:      recruiterSystemPrompt,
		Prompt:      prompt,
		Temperature: 0.3,
		MaxTokens:   800,
	}
}

// BuildValidationPrompt asks for a JSON verdict on whether text is a résumé.
func BuildValidationPrompt(text string) port.CompletionRequest {
	if len(text) > maxValidationChars {
		text = text[:maxValidationChars]
	}
	prompt := `You are a smart resume validator. Determine if the text provided is actually a resume or CV.
A valid resume should have most of these elements:
1. Contact information (name, email, phone, etc.)
2. Education details
3. Work experience or skills
4. Some professional information

Text to validate:
` + "```\n" + text + "\n```" + `

Respond with ONLY a JSON object of this shape:
{
  "is_resume": true or false,
  "reasoning": "Brief explanation of why this is or isn't a resume",
  "missing_elements": ["critical elements missing from the resume, if any"]
}

Do not include any other text in your response.`

	return port.CompletionRequest{
		Prompt:      prompt,
		Temperature: 0.2,
		MaxTokens:   500,
		JSON:        true,
	}
}
