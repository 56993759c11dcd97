// messages.go contains message templates for Telegram.

package telegram

const (
	msgWelcome = "👋 Welcome to the trivia quiz!\n\n" +
		"Send /quiz to get a fresh batch of questions, tap an answer under each question " +
		"and check your result with /score."
	msgHelp = "Available commands:\n\n" +
		"/quiz — load a new batch of questions\n" +
		"/score — show your score for the current batch\n" +
		"/help — show this help"
	msgLoading         = "⏳ Loading questions…"
	msgFetchFailed     = "Could not load new questions. Try again with /quiz."
	msgFetchKeptOld    = "Could not load new questions, the previous ones are still available. Try again with /quiz."
	msgNoQuestions     = "There are no questions for the current settings."
	msgQuizOutdated    = "This question belongs to an older quiz."
	msgInvalidAnswer   = "Unknown answer."
	msgInternalError   = "Something went wrong. Try again later."
	msgUnknownCommand  = "Unknown command.\n\n" + msgHelp
	msgNoActiveQuiz    = "No quiz yet. Send /quiz to start."
	msgCorrect         = "✅ Correct!"
	msgWrong           = "❌ Wrong"
	msgWrongFormat     = "❌ Wrong. Correct answer: %s"
	msgGuessMarker     = "👉 "
	msgQuestionHeader  = "<b>Question %d/%d</b>"
	msgScoreFormat     = "📊 <b>Score</b>\n\nCorrect: %d / %d answered (%.0f%%)\nQuestions: %d"
	msgScoreComplete   = "\n\n🏁 All questions answered!"
	msgNewQuizButton   = "🔄 New quiz"
	msgShowScoreButton = "📊 Score"
)
