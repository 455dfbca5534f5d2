package studysync

import "testing"

func TestOptionStyleUngraded(t *testing.T) {
	st := loaded()
	_ = st.Answer(0, 1)
	for opt := 0; opt < 2; opt++ {
		if got := st.OptionStyle(0, opt); got != StyleNeutral {
			t.Fatalf("option %d: want=%q got=%q", opt, StyleNeutral, got)
		}
	}
}

func TestOptionStyleGraded(t *testing.T) {
	st := loaded()
	_ = st.Answer(0, 1) // correct
	_ = st.Answer(1, 2) // wrong, correct is 0
	_ = st.SubmitQuiz()

	cases := []struct {
		q, opt int
		want   OptionStyle
	}{
		{0, 0, StyleNeutral},
		{0, 1, StyleCorrectSelected},
		{1, 0, StyleRevealCorrect},
		{1, 1, StyleNeutral},
		{1, 2, StyleIncorrectSelected},
	}
	for _, tc := range cases {
		if got := st.OptionStyle(tc.q, tc.opt); got != tc.want {
			t.Fatalf("style(%d,%d): want=%q got=%q", tc.q, tc.opt, tc.want, got)
		}
	}
}

func TestOptionStyleStaleAfterReanswer(t *testing.T) {
	st := loaded()
	_ = st.Answer(0, 1)
	_ = st.Answer(1, 0)
	_ = st.SubmitQuiz()

	// Flip question 0 to the wrong option: the stored verdict is still true,
	// so the newly selected wrong option is painted as correct-selected.
	_ = st.Answer(0, 0)
	if got := st.OptionStyle(0, 0); got != StyleCorrectSelected {
		t.Fatalf("style(0,0): want=%q got=%q", StyleCorrectSelected, got)
	}
	if got := st.OptionStyle(0, 1); got != StyleRevealCorrect {
		t.Fatalf("style(0,1): want=%q got=%q", StyleRevealCorrect, got)
	}
}

func TestViewWithoutMaterials(t *testing.T) {
	st := New()
	v := st.View()
	if v.Materials != nil {
		t.Fatalf("materials: want nil")
	}
	if v.CanGenerate {
		t.Fatalf("can generate: want=false without a file")
	}
}

func TestViewScenario(t *testing.T) {
	st := loaded()
	st.Materials.QuizQuestions = st.Materials.QuizQuestions[:1]
	_ = st.Answer(0, 1)
	_ = st.SubmitQuiz()

	v := st.View()
	if v.Materials == nil {
		t.Fatalf("materials: want rendered")
	}
	if v.Materials.Summary != "S" {
		t.Fatalf("summary: want=%q got=%q", "S", v.Materials.Summary)
	}
	if len(v.Materials.Questions) != 1 || len(v.Materials.Questions[0].Options) != 2 {
		t.Fatalf("questions: got=%+v", v.Materials.Questions)
	}
	q := v.Materials.Questions[0]
	if q.Verdict() != "Correct!" {
		t.Fatalf("verdict: want=%q got=%q", "Correct!", q.Verdict())
	}
	if !q.Options[1].Selected || q.Options[0].Selected {
		t.Fatalf("selection: got=%+v", q.Options)
	}
	if len(v.Materials.Flashcards) != 1 || v.Materials.Flashcards[0].Term != "T" {
		t.Fatalf("flashcards: got=%+v", v.Materials.Flashcards)
	}
	if !v.Materials.Graded || v.Materials.Score != 1 {
		t.Fatalf("graded/score: got graded=%v score=%d", v.Materials.Graded, v.Materials.Score)
	}
}

func TestVerdictUngraded(t *testing.T) {
	if got := (QuestionView{}).Verdict(); got != "" {
		t.Fatalf("verdict: want empty got=%q", got)
	}
	wrong := false
	if got := (QuestionView{Result: &wrong}).Verdict(); got != "Incorrect" {
		t.Fatalf("verdict: want=%q got=%q", "Incorrect", got)
	}
}
