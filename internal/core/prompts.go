// ABOUTME: Thai prompt templates for answering and fact extraction
// ABOUTME: Wording carried over from the production prototypes
package core

import (
	"fmt"
	"strings"

	"github.com/nattapong/healthqa/internal/models"
)

const mcqPromptTemplate = `คุณเป็นผู้ช่วยที่เชี่ยวชาญในการตอบคำถามเกี่ยวกับระบบหลักประกันสุขภาพแห่งชาติของไทย

ใช้ข้อมูลต่อไปนี้ในการตอบคำถาม:
%s

คำถาม: %s
ตัวเลือก:
%s

คำสั่ง:
1. วิเคราะห์คำถามและตัวเลือกทั้งหมด
2. ตรวจสอบแต่ละตัวเลือกกับข้อมูลที่ให้มา
3. เลือกคำตอบที่ถูกต้องทั้งหมด (อาจมีมากกว่าหนึ่งข้อ)
4. ตอบเฉพาะตัวอักษรเท่านั้น

รูปแบบการตอบ:
ตอบเฉพาะตัวอักษรที่ถูกต้อง เช่น "ก" หรือ "ก, ค" หรือ "ข, ค, ง"
ห้ามใส่คำอธิบายเพิ่มเติม ตอบเฉพาะตัวอักษรเท่านั้น

หากไม่มีคำตอบที่ถูกต้องตามข้อมูล ให้ตอบ: "ไม่มีคำตอบที่ถูกต้อง"

หมายเหตุ: ใช้ทั้งข้อมูลจากเอกสารหลักและข้อมูลที่เรียนรู้จากคำถามก่อนหน้าในการตอบ`

const openEndedPromptTemplate = `คุณเป็นผู้ช่วยที่เชี่ยวชาญในการตอบคำถามเกี่ยวกับระบบหลักประกันสุขภาพแห่งชาติของไทย

ใช้ข้อมูลต่อไปนี้ในการตอบคำถาม:
%s

คำถาม: %s

คำสั่ง:
1. ตอบคำถามอย่างชัดเจนและครบถ้วน
2. ใช้ข้อมูลจากเอกสารหลักและข้อมูลที่เรียนรู้มาก่อนหน้า
3. ถ้าไม่มีข้อมูลเพียงพอ ให้บอกว่า "ไม่พบข้อมูลที่เกี่ยวข้องในฐานข้อมูล"
4. ตอบเป็นภาษาไทยและให้ข้อมูลที่เป็นประโยชน์`

const extractionPromptTemplate = `คุณเป็นผู้เชี่ยวชาญในการสกัดข้อมูลสำคัญจากคำถามและคำตอบเกี่ยวกับระบบสุขภาพไทย

คำถาม: %s
คำตอบ: %s

กรุณาสกัดข้อมูลสำคัญที่มีประโยชน์สำหรับการตอบคำถามในอนาคต:

ประเภทข้อมูลที่ควรสกัด:
1. ราคายา/บริการ (เช่น ยา X ราคา Y บาท)
2. อัตราค่าบริการ (เช่น บริการ X เหมาจ่าย Y บาท/ครั้ง)
3. สิทธิประโยชน์ (เช่น สิทธิ X ครอบคลุม Y)
4. เงื่อนไขการรักษา (เช่น อายุขั้นต่ำ, เงื่อนไข)
5. แผนกและบริการ (เช่น แผนก X เปิด Y เวลา)
6. ระเบียบและกฎหมาย (เช่น กฎ X มีผล Y)

รูปแบบผลลัพธ์ (ตอบเป็น JSON):
{
  "facts": [
    {
      "type": "ประเภทข้อมูล",
      "key": "หัวข้อหลัก",
      "value": "ข้อมูลสำคัญ",
      "context": "บริบทเพิ่มเติม"
    }
  ],
  "relevance_score": 1-10
}

หากไม่พบข้อมูลที่มีประโยชน์ ให้ตอบ: {"facts": [], "relevance_score": 0}`

// buildMCQPrompt renders the multiple-choice answering prompt
func buildMCQPrompt(context string, q *models.Question) string {
	return fmt.Sprintf(mcqPromptTemplate, context, q.Text, q.FormatChoices())
}

// buildOpenEndedPrompt renders the free-text answering prompt
func buildOpenEndedPrompt(context, question string) string {
	return fmt.Sprintf(openEndedPromptTemplate, context, strings.TrimSpace(question))
}

// buildExtractionPrompt renders the fact extraction prompt
func buildExtractionPrompt(question, answer string) string {
	return fmt.Sprintf(extractionPromptTemplate, question, answer)
}
