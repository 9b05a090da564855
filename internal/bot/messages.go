package bot

// Replies sent back into the conversation.
const (
	MsgHelp = `To generate an image, type "!generate_image prompt,guidance_scale". For example: "!generate_image "mdjrny-v4 style portrait of female elf, intricate, elegant, highly detailed, digital painting, artstation, concept art, smooth, sharp focus, illustration, art by artgerm and greg rutkowski and alphonse mucha, 8k",5"`

	MsgBusy          = "A command is already in progress. Please wait for the current command to finish."
	MsgFormat        = `Please provide the correct format. Type "!help" for more information.`
	MsgGuidanceRange = "Please provide the correct guidance scale. It should be between 1 and 10."
	MsgPromptEmpty   = "Please provide the correct prompt."
	MsgPromptTooLong = "Please provide the correct prompt. It should be less than 1024 characters."

	MsgGenerating  = "Generating image..."
	MsgSendingSoon = "Image will be sent shortly..."
	MsgElapsed     = "Time elapsed: %.2f seconds"
	MsgError       = "An error occurred: %s"
	MsgOverloaded  = "The image generation is taking too long. This is likely due to the model being overloaded. Please try again later."

	MsgFeedback = "Thank you for the feedback!"
)

const (
	commandPrefix   = "!"
	commandHelp     = "!help"
	commandGenerate = "generate_image"

	emojiThumbsUp   = "👍"
	emojiThumbsDown = "👎"
)
