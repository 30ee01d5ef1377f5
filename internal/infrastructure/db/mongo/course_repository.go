package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/coursehub/course-management/internal/core/domain"
	"github.com/coursehub/course-management/internal/core/ports"
)

const coursesCollection = "courses"

type CourseRepository struct {
	coll *mongo.Collection
}

func NewCourseRepository(db *mongo.Database) *CourseRepository {
	return &CourseRepository{coll: db.Collection(coursesCollection)}
}

// mongoCourse is the stored shape: the roster is a set of user ObjectIDs, kept
// unique by $addToSet. Display data is joined at read time, never stored.
type mongoCourse struct {
	ID                primitive.ObjectID   `bson:"_id,omitempty"`
	CourseName        string               `bson:"course_name"`
	CourseDescription string               `bson:"course_description"`
	Instructor        string               `bson:"instructor"`
	EnrolledStudents  []primitive.ObjectID `bson:"enrolled_students"`
	CreatedAt         time.Time            `bson:"created_at"`
}

type mongoRosterEntry struct {
	ID    primitive.ObjectID `bson:"_id"`
	Name  string             `bson:"name"`
	Email string             `bson:"email"`
}

// mongoCourseView is the read-time shape produced by the $lookup pipeline.
type mongoCourseView struct {
	ID                primitive.ObjectID `bson:"_id"`
	CourseName        string             `bson:"course_name"`
	CourseDescription string             `bson:"course_description"`
	Instructor        string             `bson:"instructor"`
	Roster            []mongoRosterEntry `bson:"roster"`
	CreatedAt         time.Time          `bson:"created_at"`
}

func (mc *mongoCourse) toDomain() *domain.Course {
	roster := make([]domain.EnrolledStudent, 0, len(mc.EnrolledStudents))
	for _, oid := range mc.EnrolledStudents {
		roster = append(roster, domain.EnrolledStudent{ID: oid.Hex()})
	}
	return &domain.Course{
		ID:                mc.ID.Hex(),
		CourseName:        mc.CourseName,
		CourseDescription: mc.CourseDescription,
		Instructor:        mc.Instructor,
		EnrolledStudents:  roster,
		CreatedAt:         mc.CreatedAt,
	}
}

func (mv *mongoCourseView) toDomain() *domain.Course {
	roster := make([]domain.EnrolledStudent, 0, len(mv.Roster))
	for _, entry := range mv.Roster {
		roster = append(roster, domain.EnrolledStudent{
			ID:    entry.ID.Hex(),
			Name:  entry.Name,
			Email: entry.Email,
		})
	}
	return &domain.Course{
		ID:                mv.ID.Hex(),
		CourseName:        mv.CourseName,
		CourseDescription: mv.CourseDescription,
		Instructor:        mv.Instructor,
		EnrolledStudents:  roster,
		CreatedAt:         mv.CreatedAt,
	}
}

// Create inserts a new course document with an empty roster.
func (r *CourseRepository) Create(ctx context.Context, course *domain.Course) (*domain.Course, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoCourse{
		CourseName:        course.CourseName,
		CourseDescription: course.CourseDescription,
		Instructor:        course.Instructor,
		EnrolledStudents:  []primitive.ObjectID{},
		CreatedAt:         course.CreatedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert course: %w", err)
	}

	created := *course
	created.EnrolledStudents = []domain.EnrolledStudent{}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

// List returns courses newest first, optionally filtered by a case-insensitive
// substring match on course_name. Rosters are expanded with a $lookup join
// against the users collection, projecting name and email only; references to
// deleted users simply drop out of the join.
func (r *CourseRepository) List(ctx context.Context, filter ports.ListCoursesFilter) ([]*domain.Course, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{}
	if filter.Search != "" {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: bson.M{
			"course_name": primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"},
		}}})
	}
	pipeline = append(pipeline,
		bson.D{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         usersCollection,
			"localField":   "enrolled_students",
			"foreignField": "_id",
			"as":           "roster",
		}}},
		bson.D{{Key: "$project", Value: bson.M{
			"roster.password_hash": 0,
			"roster.role":          0,
			"roster.created_at":    0,
		}}},
	)

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer cursor.Close(ctx)

	courses := make([]*domain.Course, 0)
	for cursor.Next(ctx) {
		var mv mongoCourseView
		if err := cursor.Decode(&mv); err != nil {
			return nil, fmt.Errorf("decode course: %w", err)
		}
		courses = append(courses, mv.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// Update replaces the three admin-owned fields in full and returns the updated
// document. The roster and created_at are never part of the $set.
func (r *CourseRepository) Update(ctx context.Context, id string, course *domain.Course) (*domain.Course, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrCourseNotFound
	}

	update := bson.M{"$set": bson.M{
		"course_name":        course.CourseName,
		"course_description": course.CourseDescription,
		"instructor":         course.Instructor,
	}}

	var mc mongoCourse
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&mc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCourseNotFound
		}
		return nil, fmt.Errorf("update course: %w", err)
	}
	return mc.toDomain(), nil
}

// Delete removes a course document. A missing id is reported as not found,
// keeping delete consistent with update.
func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrCourseNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrCourseNotFound
	}
	return nil
}

// Enroll adds the user to the course roster with an atomic $addToSet, the
// single-document check-then-append the enrollment invariant relies on. Under
// concurrent calls for the same pair exactly one modifies the document; the
// others match without modifying and observe ErrAlreadyEnrolled.
func (r *CourseRepository) Enroll(ctx context.Context, courseID, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	courseOID, userOID, err := rosterIDs(courseID, userID)
	if err != nil {
		return err
	}

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": courseOID},
		bson.M{"$addToSet": bson.M{"enrolled_students": userOID}},
	)
	if err != nil {
		return fmt.Errorf("enroll: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrCourseNotFound
	}
	if res.ModifiedCount == 0 {
		return domain.ErrAlreadyEnrolled
	}
	return nil
}

// Withdraw removes the user from the roster with an atomic $pull. All matching
// entries are removed, though the set invariant guarantees at most one.
func (r *CourseRepository) Withdraw(ctx context.Context, courseID, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	courseOID, userOID, err := rosterIDs(courseID, userID)
	if err != nil {
		return err
	}

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": courseOID},
		bson.M{"$pull": bson.M{"enrolled_students": userOID}},
	)
	if err != nil {
		return fmt.Errorf("withdraw: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrCourseNotFound
	}
	if res.ModifiedCount == 0 {
		return domain.ErrNotEnrolled
	}
	return nil
}

// rosterIDs parses both ids into their canonical ObjectID form. Membership is
// always decided on these canonical values, never on raw strings.
func rosterIDs(courseID, userID string) (primitive.ObjectID, primitive.ObjectID, error) {
	courseOID, err := primitive.ObjectIDFromHex(courseID)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, domain.ErrCourseNotFound
	}
	userOID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, domain.ErrInvalidInput
	}
	return courseOID, userOID, nil
}

// EnsureIndexes creates the indexes backing list ordering and name search.
func (r *CourseRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "course_name", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
