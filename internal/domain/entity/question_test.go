package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOptions() OptionArray {
	return OptionArray{
		{ID: 0, Text: "Скорость"},
		{ID: 1, Text: "Ускорение"},
		{ID: 2, Text: "Импульс"},
		{ID: 3, Text: "Сила"},
	}
}

func TestQuestion_IsCorrect(t *testing.T) {
	// Arrange
	question := &Question{
		ID:            1,
		ExamID:        1,
		Text:          "Что измеряется в м/с²?",
		Options:       testOptions(),
		CorrectOption: 1,
	}

	// Act & Assert
	assert.True(t, question.IsCorrect(1), "IsCorrect должен вернуть true для правильного варианта")
	assert.False(t, question.IsCorrect(0), "IsCorrect должен вернуть false для неправильного варианта")
	assert.False(t, question.IsCorrect(SkippedOption), "Пропуск не является правильным ответом")
}

func TestQuestion_IsValidOption(t *testing.T) {
	question := &Question{Options: testOptions()}

	// Валидные варианты
	for id := 0; id <= 3; id++ {
		assert.True(t, question.IsValidOption(id), "Вариант %d должен быть валидным", id)
	}

	// Невалидные варианты
	assert.False(t, question.IsValidOption(-1), "Отрицательный индекс невалиден")
	assert.False(t, question.IsValidOption(4), "Индекс вне диапазона невалиден")
	assert.False(t, question.IsValidOption(100))
}

func TestQuestion_OptionsCount(t *testing.T) {
	question := &Question{Options: testOptions()}
	assert.Equal(t, 4, question.OptionsCount())

	empty := &Question{}
	assert.Equal(t, 0, empty.OptionsCount())
}

func TestOptionArray_ScanValue(t *testing.T) {
	// Value сериализует варианты в JSON, Scan восстанавливает их
	original := testOptions()

	value, err := original.Value()
	require.NoError(t, err)

	var restored OptionArray
	require.NoError(t, restored.Scan(value))

	assert.Equal(t, original, restored)
}

func TestOptionArray_ValueEmpty(t *testing.T) {
	// Пустой набор вариантов сериализуется как пустой JSON-массив, не null
	var options OptionArray

	value, err := options.Value()
	require.NoError(t, err)
	assert.Equal(t, []byte("[]"), value)
}

func TestOptionArray_ScanNil(t *testing.T) {
	var options OptionArray
	require.NoError(t, options.Scan(nil))
	assert.Empty(t, options)
}
