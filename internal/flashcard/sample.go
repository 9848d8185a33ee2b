package flashcard

// SampleDeck is the built-in deck served when the generation backend is
// unreachable. Keeping the feature populated was preferred over an
// error page for flashcards only; the other features surface the error.
func SampleDeck() *Deck {
	return &Deck{
		Title: "Sample Flashcards",
		Flashcards: []Flashcard{
			{
				Question: "What is React?",
				Answer:   "React is a JavaScript library for building user interfaces, particularly web applications. It was developed by Facebook and allows developers to create reusable UI components.",
			},
			{
				Question: "What is a component in React?",
				Answer:   "A component is a reusable piece of code that returns JSX elements to be rendered to the page. Components can be either functional or class-based.",
			},
			{
				Question: "What is JSX?",
				Answer:   "JSX is a syntax extension for JavaScript that allows you to write HTML-like code within JavaScript. It makes it easier to create and visualize the structure of UI components.",
			},
			{
				Question: "What are props in React?",
				Answer:   "Props (short for properties) are a way to pass data from parent components to child components. They are read-only and help make components reusable.",
			},
			{
				Question: "What is state in React?",
				Answer:   "State is a built-in object that stores data that can change over time within a component. When state changes, the component re-renders to reflect the new data.",
			},
		},
	}
}
